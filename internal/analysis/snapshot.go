package analysis

import (
	"encoding/json"
	"os"

	"github.com/sgharlow/living-docs/internal/core/errors"
	"github.com/sgharlow/living-docs/internal/shared/util"
)

// LoadSnapshot reads an analysis snapshot from a JSON file. The file either
// holds a full Snapshot document or a bare path->record map (the format the
// standalone parsers emit).
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "analysis snapshot not found")
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "read analysis snapshot")
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err == nil && snapshot.Files != nil {
		snapshot.normalize()
		return &snapshot, nil
	}

	var bare map[string]*FileAnalysis
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "analysis snapshot is not valid JSON")
	}
	snapshot = Snapshot{Files: bare}
	snapshot.normalize()
	return &snapshot, nil
}

func (s *Snapshot) normalize() {
	normalized := make(map[string]*FileAnalysis, len(s.Files))
	for path, file := range s.Files {
		key := util.NormalizePath(path)
		if key == "" || file == nil {
			continue
		}
		normalized[key] = file
	}
	s.Files = normalized
	s.ProjectRoot = util.NormalizePath(s.ProjectRoot)
}
