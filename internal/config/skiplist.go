package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// skipFile is the on-disk shape of the skip list:
//
//	skip:
//	  - Microsoft.Edge
//	  - Some.PinnedApp
type skipFile struct {
	Skip []string `yaml:"skip"`
}

// LoadSkipSet reads the skip list at path into a membership set. A
// configured skip list that is missing or malformed is a fatal
// configuration error: silently upgrading a package the user meant to
// exclude is worse than refusing to start.
func LoadSkipSet(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skip list: %w", err)
	}

	var sf skipFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing skip list %s: %w", path, err)
	}

	set := make(map[string]struct{}, len(sf.Skip))
	for _, id := range sf.Skip {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set, nil
}
