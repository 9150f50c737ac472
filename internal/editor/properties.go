package editor

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"k8s.io/klog/v2"
)

// PropertyMap is the editable view of a property document.
//
// A nil value is the null marker: the property is left exactly as it is on
// disk. Deleting the key removes the property.
type PropertyMap map[string]*string

// Get returns the value of name. A null entry reports false.
func (m PropertyMap) Get(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Set stores value under name. Ints and bools are formatted the way Hadoop
// expects them; anything else goes through fmt.
func (m PropertyMap) Set(name string, value any) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	case bool:
		s = strconv.FormatBool(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	m[name] = &s
}

// Null marks name as untouched for this session.
func (m PropertyMap) Null(name string) {
	m[name] = nil
}

// Delete removes name from the document.
func (m PropertyMap) Delete(name string) {
	delete(m, name)
}

type propertyDocument struct {
	doc   *etree.Document
	root  *etree.Element
	nodes map[string]*etree.Element
	snap  map[string]string
}

func loadPropertyDocument(path string) (*propertyDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &MalformedDocumentError{Path: path, Err: errors.New("no root element")}
	}
	if root.Tag != "configuration" {
		return nil, &MalformedDocumentError{Path: path, Err: fmt.Errorf("root element is <%s>, want <configuration>", root.Tag)}
	}

	pd := &propertyDocument{
		doc:   doc,
		root:  root,
		nodes: make(map[string]*etree.Element),
		snap:  make(map[string]string),
	}
	for _, prop := range root.SelectElements("property") {
		nameEl := prop.SelectElement("name")
		if nameEl == nil {
			continue
		}
		name := strings.TrimSpace(nameEl.Text())
		if _, dup := pd.nodes[name]; dup {
			continue
		}
		value := ""
		if valueEl := prop.SelectElement("value"); valueEl != nil {
			value = strings.TrimSpace(valueEl.Text())
		}
		pd.nodes[name] = prop
		pd.snap[name] = value
	}
	return pd, nil
}

// apply writes the differences between the snapshot and after into the tree.
func (pd *propertyDocument) apply(after PropertyMap) (added, modified, removed int) {
	for name, prop := range pd.nodes {
		if _, ok := after[name]; !ok {
			pd.root.RemoveChild(prop)
			removed++
		}
	}

	var fresh []string
	for name, value := range after {
		if value == nil {
			continue
		}
		before, existed := pd.snap[name]
		switch {
		case !existed:
			fresh = append(fresh, name)
		case before != *value:
			valueEl := pd.nodes[name].SelectElement("value")
			if valueEl == nil {
				valueEl = pd.nodes[name].CreateElement("value")
			}
			valueEl.SetText(*value)
			modified++
		}
	}

	// Map order is random; sort so repeated runs write identical files.
	sort.Strings(fresh)
	for _, name := range fresh {
		prop := pd.root.CreateElement("property")
		prop.CreateElement("name").SetText(name)
		prop.CreateElement("value").SetText(*after[name])
		added++
	}
	return added, modified, removed
}

func (pd *propertyDocument) bytes() ([]byte, error) {
	trimText(pd.root)
	pd.doc.Indent(4)
	return pd.doc.WriteToBytes()
}

// trimText strips surrounding whitespace from leaf element text.
func trimText(el *etree.Element) {
	children := el.ChildElements()
	if len(children) == 0 {
		if text := el.Text(); text != "" {
			el.SetText(strings.TrimSpace(text))
		}
		return
	}
	for _, c := range children {
		trimText(c)
	}
}

// EditPropertyMap opens the property document at path and passes fn a
// snapshot of its name -> value pairs. When fn returns nil the additions,
// changes and deletions it made are applied to the document, which is then
// re-indented and written back. Properties fn did not touch keep their place.
// When fn returns an error the file is not written.
func EditPropertyMap(path string, fn func(props PropertyMap) error) error {
	pd, err := loadPropertyDocument(path)
	if err != nil {
		return err
	}

	props := make(PropertyMap, len(pd.snap))
	for name, value := range pd.snap {
		v := value
		props[name] = &v
	}

	if err := fn(props); err != nil {
		return err
	}

	added, modified, removed := pd.apply(props)
	klog.V(4).Infof("%s: %d added, %d modified, %d removed", path, added, modified, removed)

	data, err := pd.bytes()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// ReadPropertyMap returns the name -> value pairs of the document at path.
func ReadPropertyMap(path string) (map[string]string, error) {
	pd, err := loadPropertyDocument(path)
	if err != nil {
		return nil, err
	}
	return pd.snap, nil
}
