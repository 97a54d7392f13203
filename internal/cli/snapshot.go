package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/manuscript/internal/config"
	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/versions"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

// VersionCapturer captures a version of a variant.
type VersionCapturer interface {
	Capture(in services.CaptureInput) (*entities.Version, error)
}

type SnapshotCommand struct {
	BookVariant  string
	Name         string
	Description  string
	DatabasePath string

	cfg *config.Config
}

func NewSnapshotCommand(cfg *config.Config) *SnapshotCommand {
	return &SnapshotCommand{cfg: cfg}
}

func (cmd *SnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.BookVariant, "book-type", string(entities.BookVariantFull), "Book variant to snapshot (full or booklet)")
	fs.StringVar(&cmd.Name, "name", "", "Version name (required)")
	fs.StringVar(&cmd.Description, "description", "", "Optional description")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Capture a version of the current chapters of a book variant.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s snapshot -book-type booklet -name \"Sent to editor\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" {
		fs.Usage()
		return fmt.Errorf("name is required")
	}
	if _, err := entities.ParseBookVariant(cmd.BookVariant); err != nil {
		return err
	}

	return nil
}

func (cmd *SnapshotCommand) Run() error {
	log, err := logging.New(cmd.cfg.Logging.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.NewDatabase(cmd.DatabasePath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return cmd.Capture(services.NewSnapshotter(versions.NewRepository(db.DB), log))
}

// Capture records the version and prints a summary.
func (cmd *SnapshotCommand) Capture(capturer VersionCapturer) error {
	version, err := capturer.Capture(services.CaptureInput{
		BookVariant: entities.BookVariant(cmd.BookVariant),
		VersionName: cmd.Name,
		Description: cmd.Description,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Captured %q (%s): %d chapters, %d words\n",
		version.VersionName, version.ID, version.ChapterCount, version.TotalWords)
	fmt.Printf("Checksum: %s\n", version.Checksum)
	return nil
}
