package form

import (
	"bytes"
	"encoding/json"
)

// Component is one node of the UI metadata tree.
type Component struct {
	Arguments Arguments `json:"arguments"`
	Children  Children  `json:"children,omitempty"`
}

type Arguments struct {
	Data ArgumentData `json:"data"`
}

type ArgumentData struct {
	Config any `json:"config"`
}

// Child is a named child component.
type Child struct {
	Name      string
	Component *Component
}

// Children encodes as a JSON object whose keys keep slice order, since the
// client renders children in the order they appear.
type Children []Child

func (c Children) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, child := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(child.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(child.Component)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Child returns the named child, or nil.
func (c *Component) Child(name string) *Component {
	for _, child := range c.Children {
		if child.Name == name {
			return child.Component
		}
	}
	return nil
}

type FieldsetConfig struct {
	ComponentType string `json:"componentType"`
	Label         string `json:"label"`
	Collapsible   bool   `json:"collapsible"`
	Opened        bool   `json:"opened"`
	SortOrder     int    `json:"sortOrder"`
}

type DndConfig struct {
	Enabled bool `json:"enabled"`
}

type DynamicRowsConfig struct {
	ComponentType       string    `json:"componentType"`
	Component           string    `json:"component"`
	DataScope           string    `json:"dataScope"`
	Label               bool      `json:"label"`
	ColumnsHeader       bool      `json:"columnsHeader"`
	RenderDefaultRecord bool      `json:"renderDefaultRecord"`
	AddButton           bool      `json:"addButton"`
	DndConfig           DndConfig `json:"dndConfig"`
	Template            string    `json:"template"`
	AdditionalClasses   string    `json:"additionalClasses"`
	Visible             bool      `json:"visible"`
	SortOrder           int       `json:"sortOrder"`
	IndexField          string    `json:"indexField"`
}

type RecordConfig struct {
	ComponentType string `json:"componentType"`
	IsTemplate    bool   `json:"isTemplate"`
	IsCollection  bool   `json:"is_collection"`
	DataScope     string `json:"dataScope"`
	Disabled      bool   `json:"disabled"`
}

type ColumnConfig struct {
	ComponentType string `json:"componentType"`
	FormElement   string `json:"formElement"`
	DataType      string `json:"dataType"`
	ElementTmpl   string `json:"elementTmpl"`
	Label         string `json:"label"`
	DataScope     string `json:"dataScope"`
	Disabled      bool   `json:"disabled"`
	Visible       bool   `json:"visible"`
	SortOrder     int    `json:"sortOrder"`
}

func withConfig(config any, children ...Child) *Component {
	return &Component{
		Arguments: Arguments{Data: ArgumentData{Config: config}},
		Children:  children,
	}
}
