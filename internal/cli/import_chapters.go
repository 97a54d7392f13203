package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/mrlokans/manuscript/internal/config"
	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/chapters"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/parsers"
	"github.com/mrlokans/manuscript/internal/services"
)

// ChapterCreator appends a chapter to a variant.
type ChapterCreator interface {
	Create(in services.CreateChapterInput) (*entities.Chapter, error)
}

type ImportChaptersCommand struct {
	Directory    string
	BookVariant  string
	DatabasePath string
	DryRun       bool

	cfg *config.Config
	fs  afero.Fs
}

func NewImportChaptersCommand(cfg *config.Config) *ImportChaptersCommand {
	return &ImportChaptersCommand{cfg: cfg, fs: afero.NewOsFs()}
}

func (cmd *ImportChaptersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-chapters", flag.ExitOnError)

	fs.StringVar(&cmd.Directory, "dir", "", "Directory with one markdown file per chapter (required)")
	fs.StringVar(&cmd.BookVariant, "book-type", string(entities.BookVariantFull), "Book variant to append the chapters to (full or booklet)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and list chapters without writing them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-chapters [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Append *.md files to a book variant as chapters, in lexical file order.\n")
		fmt.Fprintf(os.Stderr, "The title is taken from front matter, the first '# ' heading, or the file name.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-chapters -dir ./drafts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-chapters -dir ./booklet -book-type booklet -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Directory == "" {
		fs.Usage()
		return fmt.Errorf("directory is required")
	}
	if _, err := entities.ParseBookVariant(cmd.BookVariant); err != nil {
		return err
	}

	return nil
}

func (cmd *ImportChaptersCommand) Run() error {
	log, err := logging.New(cmd.cfg.Logging.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.DryRun {
		return cmd.Import(nil, log)
	}

	db, err := database.NewDatabase(cmd.DatabasePath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return cmd.Import(services.NewChapterService(chapters.NewRepository(db.DB), log), log)
}

// Import parses the directory and creates the chapters through creator.
// A nil creator only prints what would be imported.
func (cmd *ImportChaptersCommand) Import(creator ChapterCreator, log *logging.Logger) error {
	if ok, err := afero.DirExists(cmd.fs, cmd.Directory); err != nil || !ok {
		return fmt.Errorf("directory does not exist: %s", cmd.Directory)
	}
	variant, err := entities.ParseBookVariant(cmd.BookVariant)
	if err != nil {
		return err
	}

	parsed, result, err := parsers.NewMarkdownParser(cmd.fs, log).ParseDir(cmd.Directory)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d chapter files in %s (%d failed to parse)\n", result.FilesProcessed, cmd.Directory, result.FilesFailed)

	imported := 0
	for i, ch := range parsed {
		if creator == nil {
			fmt.Printf("%d. %s (%s)\n", i+1, ch.Title, ch.File)
			continue
		}
		created, err := creator.Create(services.CreateChapterInput{
			BookVariant: variant,
			Title:       ch.Title,
			Content:     ch.Content,
			Status:      ch.Status,
			Notes:       ch.Notes,
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", ch.File, err)
		}
		imported++
		fmt.Printf("%d. %s -> position %d, %d words\n", i+1, created.Title, created.OrderIndex, created.WordCount)
	}

	if creator != nil {
		log.Info("Chapters imported", "book_type", variant, "count", imported)
	}
	return nil
}
