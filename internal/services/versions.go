package services

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/blake2b"
	"gorm.io/datatypes"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/logging"
)

type CaptureInput struct {
	BookVariant entities.BookVariant `json:"bookType"`
	VersionName string               `json:"versionName"`
	Description string               `json:"description"`
}

func (in CaptureInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.VersionName, validation.Required.Error("version name is required"), validation.Length(1, 255)),
	)
}

// Snapshotter captures immutable copies of a variant's chapters.
type Snapshotter struct {
	store VersionStore
	log   *logging.Logger
}

func NewSnapshotter(store VersionStore, log *logging.Logger) *Snapshotter {
	return &Snapshotter{store: store, log: log}
}

// Capture freezes the current chapters of a variant. The snapshot carries
// full chapter content, so later edits never reach it.
func (s *Snapshotter) Capture(in CaptureInput) (*entities.Version, error) {
	in.VersionName = strings.TrimSpace(in.VersionName)
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	variant, err := entities.ParseBookVariant(string(in.BookVariant))
	if err != nil {
		return nil, err
	}

	version, err := s.store.CaptureVersion(variant, func(chapters []entities.Chapter) (*entities.Version, error) {
		return buildVersion(in.VersionName, in.Description, chapters)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Version captured", "id", version.ID, "book_type", variant, "chapters", version.ChapterCount)
	return version, nil
}

func buildVersion(name, description string, chapters []entities.Chapter) (*entities.Version, error) {
	frozen := make([]entities.ChapterSnapshot, 0, len(chapters))
	total := 0
	for _, ch := range chapters {
		frozen = append(frozen, entities.NewChapterSnapshot(ch))
		total += ch.WordCount
	}
	payload, err := json.Marshal(frozen)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	sum := blake2b.Sum256(payload)

	return &entities.Version{
		VersionName:  name,
		Description:  description,
		Snapshot:     datatypes.JSON(payload),
		ChapterCount: len(frozen),
		TotalWords:   total,
		Checksum:     hex.EncodeToString(sum[:]),
	}, nil
}

func (s *Snapshotter) List(variant entities.BookVariant) ([]entities.Version, error) {
	return s.store.ListVersions(variant)
}

// Get returns a version with its chapters decoded and its checksum checked
// against the stored payload.
func (s *Snapshotter) Get(id string) (*entities.VersionDetail, error) {
	version, err := s.store.GetVersion(id)
	if err != nil {
		return nil, err
	}
	chapters := []entities.ChapterSnapshot{}
	if len(version.Snapshot) > 0 {
		if err := json.Unmarshal(version.Snapshot, &chapters); err != nil {
			return nil, entities.NewStoreError("decode snapshot", err)
		}
	}
	verified := checksumMatches(version)
	if !verified {
		s.log.Warn("Version checksum mismatch", "id", version.ID, "checksum", version.Checksum)
	}
	return &entities.VersionDetail{Version: *version, Chapters: chapters, Verified: verified}, nil
}

func checksumMatches(version *entities.Version) bool {
	sum := blake2b.Sum256(version.Snapshot)
	return hex.EncodeToString(sum[:]) == version.Checksum
}

// Archive writes a version as a zip of markdown files and returns the
// suggested download name.
func (s *Snapshotter) Archive(w io.Writer, id string) (string, error) {
	detail, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if err := exporters.WriteVersionArchive(w, detail); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return exporters.ArchiveFileName(detail.Version), nil
}
