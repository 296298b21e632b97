package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/rowset"
	"github.com/syssam/rowset/dialect"
	sqldialect "github.com/syssam/rowset/dialect/sql"
	"github.com/syssam/rowset/schema"

	// Register database drivers for --driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		driverFlag string
		dsnFlag    string
		debugFlag  bool
	)

	rootCmd := &cobra.Command{
		Use:   "rowset",
		Short: "Inspect descriptors and smoke-test the rowset engine",
		Long: `rowset validates YAML entity descriptors and runs the engine's
create/set/commit/refresh/remove round trip against a live database.

Examples:
  rowset validate recording.yaml
  rowset smoke
  rowset smoke --driver mysql --dsn "user:pass@/mythconverg"`,
	}
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", dialect.SQLite, "database driver (sqlite, mysql, postgres)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "file::memory:?cache=shared", "database connection string")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "trace generated SQL to stderr")

	validateCmd := &cobra.Command{
		Use:   "validate <descriptor.yaml>",
		Short: "Parse and validate a YAML entity descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			desc, err := schema.LoadYAML(data)
			if err != nil {
				return err
			}
			fmt.Printf("entity %s (table %s): %d columns, %d unique keys\n",
				desc.Name(), desc.Table(), len(desc.Columns()), len(desc.UniqueKeys()))
			return nil
		},
	}

	smokeCmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the round trip against a live database",
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := sqldialect.Open(driverFlag, dsnFlag)
			if err != nil {
				return err
			}
			defer drv.Close()
			var d dialect.Driver = drv
			if debugFlag {
				sink := dialect.NewSlogSink(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
				d = dialect.Debug(drv, sink)
			}
			return smoke(cmd.Context(), d)
		},
	}

	rootCmd.AddCommand(validateCmd, smokeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// smokeDesc describes the scratch table the smoke run works against.
var smokeDesc = schema.New("SmokeRecord").
	Table("rowset_smoke").
	Columns(
		schema.Plain("id").WithImmutable().WithAutoIncrement().WithDefault(schema.Null),
		schema.Plain("title").WithQuoted(),
		schema.Plain("note").WithQuoted().WithNullable(),
	).
	Unique("id").
	MustBuild()

// scratchDDL spells the auto-increment key the way the given dialect does.
func scratchDDL(dialectName string) string {
	switch dialectName {
	case dialect.MySQL:
		return "CREATE TABLE IF NOT EXISTS rowset_smoke (id BIGINT PRIMARY KEY AUTO_INCREMENT, title TEXT NOT NULL, note TEXT)"
	case dialect.Postgres:
		return "CREATE TABLE IF NOT EXISTS rowset_smoke (id BIGSERIAL PRIMARY KEY, title TEXT NOT NULL, note TEXT)"
	default:
		return "CREATE TABLE IF NOT EXISTS rowset_smoke (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, note TEXT)"
	}
}

// smoke drives one row through the full lifecycle and reports each step.
func smoke(ctx context.Context, drv dialect.Driver) error {
	if err := drv.Exec(ctx, scratchDDL(drv.Dialect())); err != nil {
		return fmt.Errorf("create scratch table: %w", err)
	}
	e, err := rowset.Create(drv, smokeDesc)
	if err != nil {
		return err
	}
	if err := e.Set(0, map[string]string{"title": "smoke run", "note": ""}); err != nil {
		return err
	}
	if err := e.Commit(ctx, 0); err != nil {
		return err
	}
	id, err := e.Get(0, "id")
	if err != nil {
		return err
	}
	fmt.Printf("inserted row id=%s\n", id)
	if err := e.Set(0, map[string]string{"title": "smoke run committed"}); err != nil {
		return err
	}
	if err := e.Commit(ctx, 0); err != nil {
		return err
	}
	if err := e.Refresh(ctx, 0, []string{"title", "note"}); err != nil {
		return err
	}
	title, err := e.Get(0, "title")
	if err != nil {
		return err
	}
	fmt.Printf("refreshed title=%q\n", title)
	n, err := e.Count(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Printf("table holds %d rows\n", n)
	if err := e.Remove(ctx, 0); err != nil {
		return err
	}
	fmt.Println("removed row, round trip complete")
	return nil
}
