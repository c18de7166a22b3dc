package checkpoint

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/neurlang/textclassifier/net/mlp"
	"github.com/neurlang/textclassifier/tfidf"
)

// Store saves the checkpoints of one run into a fixed directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store writing into dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the checkpoint directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save overwrites the checkpoint in the store directory.
func (s *Store) Save(model *mlp.Classifier, extractor *tfidf.State, d Descriptor) error {
	if err := Save(s.dir, model, extractor, d); err != nil {
		return err
	}
	for _, name := range []string{ModelFile, DescriptorFile, ExtractorFile} {
		path := filepath.Join(s.dir, name)
		if info, err := os.Stat(path); err == nil {
			s.logger.Debug("Wrote checkpoint artifact",
				zap.String("path", path),
				zap.String("size", humanize.Bytes(uint64(info.Size()))))
		}
	}
	return nil
}

// Load reads the checkpoint in the store directory.
func (s *Store) Load() (*Checkpoint, error) {
	return Load(s.dir)
}
