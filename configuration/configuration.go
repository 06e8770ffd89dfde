// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/nlpodyssey/gorelex/vocabulary"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "GORELEX_"

var (
	ErrInvalidBatchSize = errors.New("configuration: batch size must be positive")
	ErrInvalidMaxLen    = errors.New("configuration: max length must be positive")
	ErrInvalidDevRatio  = errors.New("configuration: dev ratio must be in (0, 1)")
)

type Configuration struct {
	BatchSize    int     `json:"batch_size" yaml:"batch_size" env:"BATCH_SIZE"`
	Lower        bool    `json:"lower" yaml:"lower" env:"LOWER"`
	UseMask      bool    `json:"use_mask" yaml:"use_mask" env:"USE_MASK"`
	MaskWithType bool    `json:"mask_with_type" yaml:"mask_with_type" env:"MASK_WITH_TYPE"`
	Shuffle      bool    `json:"shuffle" yaml:"shuffle" env:"SHUFFLE"`
	MaxLen       int     `json:"max_len" yaml:"max_len" env:"MAX_LEN"`
	DevRatio     float64 `json:"dev_ratio" yaml:"dev_ratio" env:"DEV_RATIO"`
	Seed         int64   `json:"seed" yaml:"seed" env:"SEED"`
	Verbose      bool    `json:"verbose" yaml:"verbose" env:"VERBOSE"`

	WordVocab     string `json:"word_vocab" yaml:"word_vocab" env:"WORD_VOCAB"`
	PosVocab      string `json:"pos_vocab" yaml:"pos_vocab" env:"POS_VOCAB"`
	NerVocab      string `json:"ner_vocab" yaml:"ner_vocab" env:"NER_VOCAB"`
	RelationVocab string `json:"relation_vocab" yaml:"relation_vocab" env:"RELATION_VOCAB"`
}

// DefaultMaxLen is the longest token sequence kept by the TACRED loader.
const DefaultMaxLen = 300

func Default() *Configuration {
	return &Configuration{
		BatchSize:     50,
		Lower:         false,
		UseMask:       true,
		MaskWithType:  true,
		Shuffle:       false,
		MaxLen:        DefaultMaxLen,
		DevRatio:      0.2,
		Seed:          0,
		Verbose:       true,
		WordVocab:     "",
		PosVocab:      "",
		NerVocab:      "",
		RelationVocab: "",
	}
}

func FromJsonFile(jsonFilename string) (*Configuration, error) {
	bytes, err := os.ReadFile(jsonFilename)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = json.Unmarshal(bytes, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func FromYamlFile(yamlFilename string) (*Configuration, error) {
	bytes, err := os.ReadFile(yamlFilename)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(bytes, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// FromFile picks the YAML or JSON decoder from the file extension.
func FromFile(filename string) (*Configuration, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FromYamlFile(filename)
	default:
		return FromJsonFile(filename)
	}
}

// ApplyEnv overrides the fields whose GORELEX_* variable is set.
func (c *Configuration) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	return nil
}

func (c *Configuration) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.BatchSize)
	}
	if c.MaxLen <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxLen, c.MaxLen)
	}
	if !(c.DevRatio > 0 && c.DevRatio < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidDevRatio, c.DevRatio)
	}
	return nil
}

// TagVocabularies returns the POS and NER vocabularies, loading the
// configured files or falling back to the built-in tag sets.
func (c *Configuration) TagVocabularies() (pos, ner *vocabulary.Vocabulary, err error) {
	pos, err = loadOrDefault(c.PosVocab, vocabulary.DefaultPOS)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading POS vocabulary: %w", err)
	}
	ner, err = loadOrDefault(c.NerVocab, vocabulary.DefaultNER)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading NER vocabulary: %w", err)
	}
	return pos, ner, nil
}

func loadOrDefault(filename string, fallback func() *vocabulary.Vocabulary) (*vocabulary.Vocabulary, error) {
	if filename == "" {
		return fallback(), nil
	}
	return vocabulary.LoadJSON(filename)
}

// Rand returns a random source seeded with Seed, or nil when Seed is 0 so
// that callers fall back to the process-wide source.
func (c *Configuration) Rand() *rand.Rand {
	if c.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(c.Seed))
}
