package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/haldai/internal/sqlite"
	"github.com/mesh-intelligence/haldai/pkg/types"
)

// validCollectionsStr lists the collection names for error output.
var validCollectionsStr = strings.Join(types.CollectionNames(), ", ")

// session returns the signed-in user: --user, else user_email from config
// or HALDAI_USER_EMAIL. An empty email means nobody is signed in.
func (a *app) session() (types.Session, error) {
	email := a.flags.user
	if email == "" && a.cfg != nil {
		email = a.cfg.GetString(cfgKeyUserEmail)
	}
	if email == "" {
		return types.SessionFor(""), nil
	}
	if err := (types.User{Email: email}).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q", err, email)
	}
	return types.SessionFor(email), nil
}

// openStore resolves the data directory and session, creates a SQLite
// backend, and initializes it. The caller must defer Close.
func (a *app) openStore(ctx context.Context) (types.Store, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, sysError(err)
	}
	session, err := a.session()
	if err != nil {
		return nil, userError(err)
	}
	backend := a.cfg.GetString(cfgKeyBackend)

	store := sqlite.NewBackend(sqlite.WithSession(session), sqlite.WithLogger(a.logger))
	if err := store.Init(ctx, types.Config{Backend: backend, DataDir: dataDir}); err != nil {
		if errors.Is(err, types.ErrStorageUnavailable) {
			return nil, sysError(fmt.Errorf("open store: %w", err))
		}
		return nil, userError(fmt.Errorf("open store: %w", err))
	}
	return store, nil
}

// withStore opens the store, runs fn, and closes the store.
func (a *app) withStore(cmd *cobra.Command, fn func(types.Store) error) error {
	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// classify maps store errors to exit codes.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrReadFailed),
		errors.Is(err, types.ErrWriteFailed),
		errors.Is(err, types.ErrStorageUnavailable):
		return sysError(err)
	default:
		return userError(err)
	}
}

// newID generates a UUID v7 for records created without an id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printDone writes a confirmation line, in green on a terminal.
func printDone(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}

// printTable writes rows under a header with aligned columns, trimming
// trailing whitespace from each line.
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// title returns the record's title field for table output.
func title(fields map[string]any) string {
	if t, ok := fields["title"].(string); ok {
		return truncate(t, 40)
	}
	return ""
}

// orDash renders an empty cell as "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkInputID rejects typed input whose id was given but is not a string;
// such an id is decoded into Fields.
func checkInputID(fields map[string]any) error {
	if v, ok := fields[types.FieldID]; ok {
		return userError(fmt.Errorf("%w: id must be a string, got %T", types.ErrInvalidRecord, v))
	}
	return nil
}
