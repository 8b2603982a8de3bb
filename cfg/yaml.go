package cfg

import (
	"errors"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrTopLevelNotMapping is returned when a YAML document's top-level value is
// not a mapping.
var ErrTopLevelNotMapping = errors.New("wiregen: top-level YAML value is not a mapping")

// LoadYAML decodes an existing wiring configuration from YAML, preserving the
// document's key order. Class references travel as plain strings; they are
// re-detected against the introspector when the configuration is serialized.
// An empty document yields an empty configuration.
func LoadYAML(data []byte) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return New(), nil
	}
	v, err := fromNode(root.Content[0])
	if err != nil {
		return nil, err
	}
	conf, ok := v.(*Config)
	if !ok {
		return nil, ErrTopLevelNotMapping
	}
	return conf, nil
}

// SaveYAML encodes conf as YAML, nested sections as mappings and Lists as
// sequences, in stored order.
func SaveYAML(conf *Config) ([]byte, error) {
	node, err := toNode(conf)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		conf := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			conf = conf.Set(n.Content[i].Value, v)
		}
		return conf, nil

	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	case yaml.AliasNode:
		return fromNode(n.Alias)

	default:
		return scalarFromNode(n)
	}
}

func scalarFromNode(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!bool":
		return strconv.ParseBool(n.Value)
	case "!!int":
		return strconv.Atoi(n.Value)
	case "!!float":
		return strconv.ParseFloat(n.Value, 64)
	case "!!null":
		return nil, nil
	default:
		return n.Value, nil
	}
}

func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Config:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.Keys() {
			entry, _ := val.Get(key)
			child, err := toNode(entry)
			if err != nil {
				return nil, err
			}
			keyNode := &yaml.Node{}
			if err := keyNode.Encode(keyText(key)); err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode, child)
		}
		return node, nil

	case List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	case ClassName:
		node := &yaml.Node{}
		return node, node.Encode(string(val))

	default:
		node := &yaml.Node{}
		return node, node.Encode(v)
	}
}
