package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// BlockType is the tag of a content block.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockCode      BlockType = "code"
	BlockMedia     BlockType = "media"
	BlockTable     BlockType = "table"
)

// ListStyle controls how list items are numbered.
type ListStyle string

const (
	ListOrdered   ListStyle = "ordered"
	ListUnordered ListStyle = "unordered"
)

// Data is the payload of one block. The set of implementations is closed.
type Data interface {
	blockType() BlockType
}

// Paragraph holds a run of rich text.
type Paragraph struct {
	Text string `json:"text" yaml:"text"`
}

// List holds list items.
type List struct {
	Items []string  `json:"items" yaml:"items"`
	Style ListStyle `json:"style" yaml:"style"`
}

// Code holds a code snippet in one language.
type Code struct {
	Code     string `json:"code" yaml:"code"`
	Language string `json:"language" yaml:"language"`
}

// Media references an image or other embedded resource.
type Media struct {
	URL     string `json:"url" yaml:"url"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
	AltText string `json:"altText,omitempty" yaml:"altText,omitempty"`
}

// Table holds a header row and body rows.
type Table struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    []TableRow `json:"rows" yaml:"rows"`
}

// TableRow is one body row of a table.
type TableRow struct {
	Cells []string `json:"cells" yaml:"cells"`
}

func (Paragraph) blockType() BlockType { return BlockParagraph }
func (List) blockType() BlockType      { return BlockList }
func (Code) blockType() BlockType      { return BlockCode }
func (Media) blockType() BlockType     { return BlockMedia }
func (Table) blockType() BlockType     { return BlockTable }

var dataFactories = map[BlockType]func() Data{
	BlockParagraph: func() Data { return &Paragraph{} },
	BlockList:      func() Data { return &List{} },
	BlockCode:      func() Data { return &Code{} },
	BlockMedia:     func() Data { return &Media{} },
	BlockTable:     func() Data { return &Table{} },
}

// Block is one ordered piece of question content.
// Data is nil when the block type is not known to this package.
type Block struct {
	Type  BlockType `json:"type" yaml:"type"`
	Data  Data      `json:"data" yaml:"data"`
	Order int       `json:"order" yaml:"order"`
}

// NewBlock builds a block whose type tag matches its data.
func NewBlock(order int, data Data) Block {
	b := Block{Order: order, Data: data}
	if data != nil {
		b.Type = data.blockType()
	}
	return b
}

// UnmarshalJSON decodes the data object according to the type tag.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  BlockType       `json:"type"`
		Data  json.RawMessage `json:"data"`
		Order int             `json:"order"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	b.Type = raw.Type
	b.Order = raw.Order
	b.Data = nil

	factory, ok := dataFactories[raw.Type]
	if !ok || len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}
	d := factory()
	if err := json.Unmarshal(raw.Data, d); err != nil {
		return fmt.Errorf("decode %s block: %w", raw.Type, err)
	}
	b.Data = deref(d)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML session files.
func (b *Block) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type  BlockType `yaml:"type"`
		Data  yaml.Node `yaml:"data"`
		Order int       `yaml:"order"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	b.Type = raw.Type
	b.Order = raw.Order
	b.Data = nil

	factory, ok := dataFactories[raw.Type]
	if !ok || raw.Data.Kind == 0 {
		return nil
	}
	d := factory()
	if err := raw.Data.Decode(d); err != nil {
		return fmt.Errorf("decode %s block: %w", raw.Type, err)
	}
	b.Data = deref(d)
	return nil
}

// deref stores block data by value so type switches see one shape.
func deref(d Data) Data {
	switch v := d.(type) {
	case *Paragraph:
		return *v
	case *List:
		return *v
	case *Code:
		return *v
	case *Media:
		return *v
	case *Table:
		return *v
	}
	return d
}
