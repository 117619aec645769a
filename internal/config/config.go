// Package config loads the receiver's YAML configuration, following the
// nested-struct yaml.v3 pattern from Aethernet's cmd/project3/config.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device struct {
		SampleRate int    `yaml:"sample_rate"`
		Channel    string `yaml:"channel"`
	} `yaml:"device"`

	Receiver struct {
		InputFile  string `yaml:"input_file"`
		OutputFile string `yaml:"output_file"`
		ChunkDir   string `yaml:"chunk_dir"`
	} `yaml:"receiver"`

	Erasure struct {
		DataShards   int `yaml:"data_shards"`
		ParityShards int `yaml:"parity_shards"`
	} `yaml:"erasure"`

	Diag struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"diag"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
