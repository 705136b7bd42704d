package steward

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConvertYAMLFileToConfig opens a file.yml/file.yaml and converts to Seasoning.
func ConvertYAMLFileToConfig(fileNamePath string) (*Seasoning, error) {

	k := koanf.New(".")
	if err := k.Load(file.Provider(fileNamePath), yaml.Parser()); err != nil {
		return nil, err
	}

	config := &Seasoning{}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, err
	}

	return config, nil
}

// ConvertYAMLFileToTopologyConfig opens a file.yml/file.yaml and converts to TopologyConfig.
func ConvertYAMLFileToTopologyConfig(fileNamePath string) (*TopologyConfig, error) {

	k := koanf.New(".")
	if err := k.Load(file.Provider(fileNamePath), yaml.Parser()); err != nil {
		return nil, err
	}

	config := &TopologyConfig{}
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, err
	}

	return config, nil
}
