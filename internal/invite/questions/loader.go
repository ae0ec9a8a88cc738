package questions

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"skyparty/internal/invite/models"
)

type bankFile struct {
	Questions []models.ChallengeQuestion `yaml:"questions"`
}

// LoadFile reads a YAML question bank:
//
//	questions:
//	  - question: "Who hosted the inaugural Sky Party™?"
//	    answer: "Victor Ade"
//	    club: "Victor Ade Club"
func LoadFile(path string) ([]models.ChallengeQuestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML question bank from r. Unknown fields are rejected.
func Load(r io.Reader) ([]models.ChallengeQuestion, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file bankFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return file.Questions, nil
}

// Resolve loads the bank at path, or the built-in catalogue when path is empty.
func Resolve(path string) ([]models.ChallengeQuestion, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	return LoadFile(path)
}
