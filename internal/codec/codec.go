// Package codec holds the JSON encoding shared by cell payloads, the JSONL
// store and CLI output.
package codec

import jsoniter "github.com/json-iterator/go"

// JSON behaves like encoding/json: sorted map keys, HTML escaping and
// invalid UTF-8 replaced with U+FFFD.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary
