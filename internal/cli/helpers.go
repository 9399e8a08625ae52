package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/grid/internal/codec"
	"github.com/mesh-intelligence/grid/internal/editor"
	"github.com/mesh-intelligence/grid/internal/logging"
	"github.com/mesh-intelligence/grid/internal/sqlite"
	"github.com/mesh-intelligence/grid/pkg/types"
)

var json = codec.JSON

// errUsage marks command-line mistakes: bad arguments or flags.
var errUsage = errors.New("usage")

// userErrors are the sentinels reported with exitUserError. Anything else
// that reaches Execute wrapped by systemErr exits with exitSysError.
var userErrors = []error{
	errUsage,
	types.ErrInvalidCellData,
	types.ErrInvalidFieldType,
	types.ErrUnknownFieldType,
	types.ErrInvalidTypeOption,
	types.ErrFieldNotFound,
	types.ErrRowNotFound,
	types.ErrDeserialization,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidName,
	types.ErrDuplicateName,
	types.ErrInvalidFilter,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	logging.ErrInvalidLevel,
}

// systemError marks a failure of the environment rather than of the input.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// classify wraps err as a system error unless it is one of userErrors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return systemErr(err)
}

// exitCode maps an error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var sys *systemError
	if errors.As(err, &sys) {
		return exitSysError
	}
	return exitUserError
}

// exactArgs is cobra.ExactArgs reporting errUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs reporting errUsage.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// withEditor attaches the backend, runs fn with an Editor over it and
// detaches. Errors from fn are classified for the exit code.
func (a *app) withEditor(fn func(ed *editor.Editor) error) error {
	cfg, err := a.backendConfig()
	if err != nil {
		return err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return systemErr(fmt.Errorf("attach backend: %w", err))
	}
	defer backend.Detach()

	return classify(fn(editor.New(backend, a.log)))
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
