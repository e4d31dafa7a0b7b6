package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/assetd/internal/formatter"
	"github.com/desertthunder/assetd/internal/models"
	"github.com/desertthunder/assetd/internal/repositories"
	"github.com/desertthunder/assetd/internal/shared"
	"github.com/desertthunder/assetd/internal/ui"
	"github.com/urfave/cli/v3"
)

// openStore opens the access log database. It does not create one; that is what setup is for.
func (r *Runner) openStore(ctx context.Context, config *shared.Config) (*sql.DB, error) {
	path := config.Database.Path
	if path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: no database at %s (run setup)", shared.ErrStoreDisabled, path)
		}
	}
	if !config.AccessLog.Persist {
		r.logger.Warn("access_log.persist is off, records will not be updated")
	}

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		return nil, err
	}
	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// LogsList prints the most recent access records, newest first.
func (r *Runner) LogsList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccessLogRepository(db)
	records, err := repo.List(ctx, listOpts(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}
	if err := r.writeRecords(records); err != nil {
		return err
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", ui.Styles.Help(fmt.Sprintf("%d of %d stored records", len(records), total)))
}

// listOpts reads --limit, --status and --since. A zero --since means no lower bound.
func listOpts(cmd *cli.Command) repositories.ListOpts {
	opts := repositories.ListOpts{
		Limit:  cmd.Int("limit"),
		Status: cmd.Int("status"),
	}
	if since := cmd.Duration("since"); since > 0 {
		opts.Since = time.Now().Add(-since)
	}
	return opts
}

// LogsShow prints a single access record by ID.
func (r *Runner) LogsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := repositories.NewAccessLogRepository(db).Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rec, true)
	}

	for _, line := range []string{
		ui.Styles.Title(rec.Line()),
		"  id          " + rec.ID,
		"  time        " + rec.CreatedAt.Local().Format(time.DateTime),
		"  bytes       " + strconv.FormatInt(rec.Bytes, 10),
		"  duration    " + rec.Duration.String(),
		"  remote      " + rec.RemoteAddr,
		"  request id  " + rec.RequestID,
	} {
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeRecords(records []models.AccessRecord) error {
	if len(records) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("no access records"))
	}
	for _, rec := range records {
		if err := r.writePlain("%s  %s %s %s  %dB  %s\n",
			rec.CreatedAt.Local().Format(time.DateTime), ui.Styles.Status(rec.Status), rec.Method, rec.URL, rec.Bytes, rec.Duration,
		); err != nil {
			return err
		}
	}
	return nil
}

// LogsExport writes recent access records to a file in the requested format.
func (r *Runner) LogsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewAccessLogRepository(db).List(ctx, listOpts(cmd))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(records, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported access records", "count", len(records), "format", format, "path", path)
	return r.writePlain("%s %d records to %s\n", ui.Styles.OK("✓"), len(records), path)
}

// quietLogs raises the logger to fatal-only and returns a func restoring the previous level.
func (r *Runner) quietLogs() func() {
	level := r.logger.GetLevel()
	r.logger.SetLevel(log.FatalLevel)
	return func() { r.logger.SetLevel(level) }
}

// LogsWatch runs the interactive viewer over the access log store.
func (r *Runner) LogsWatch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccessLogRepository(db)
	fetch := func(ctx context.Context) ([]models.AccessRecord, error) {
		return repo.List(ctx, repositories.ListOpts{Limit: 200})
	}

	// Log lines would corrupt the alt screen.
	defer r.quietLogs()()

	p := tea.NewProgram(ui.NewModel(ctx, fetch, cmd.Duration("interval")), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}
