package util

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// HadoopConfiguration is the read-only view of a *-site.xml file.
// Edits go through the editor package, which keeps unrelated nodes intact.
type HadoopConfiguration struct {
	XMLName    xml.Name         `xml:"configuration"`
	Properties []HadoopProperty `xml:"property"`
}

// HadoopProperty represents a single property in Hadoop XML config
type HadoopProperty struct {
	Name        string `xml:"name"`
	Value       string `xml:"value"`
	Description string `xml:"description,omitempty"`
}

// ParseHadoopXML parses a Hadoop XML configuration file
func ParseHadoopXML(path string) (*HadoopConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read XML file: %w", err)
	}

	var config HadoopConfiguration
	if err := xml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	return &config, nil
}

// Lookup returns the trimmed value of the first property called name.
func (c *HadoopConfiguration) Lookup(name string) (string, bool) {
	for _, prop := range c.Properties {
		if strings.TrimSpace(prop.Name) == name {
			return strings.TrimSpace(prop.Value), true
		}
	}
	return "", false
}

// Names returns property names in document order.
func (c *HadoopConfiguration) Names() []string {
	names := make([]string, 0, len(c.Properties))
	for _, prop := range c.Properties {
		names = append(names, strings.TrimSpace(prop.Name))
	}
	return names
}

// ParseFileURIs turns a comma-separated list of file:// URIs or bare paths
// into local paths: "file:///a,file:///b" -> ["/a", "/b"].
func ParseFileURIs(value string) []string {
	var paths []string

	for _, uri := range strings.Split(value, ",") {
		uri = strings.TrimSpace(uri)

		if strings.HasPrefix(uri, "file:") {
			path := strings.TrimLeft(strings.TrimPrefix(uri, "file:"), "/")
			if path != "" {
				paths = append(paths, "/"+path)
			}
		} else if uri != "" {
			paths = append(paths, uri)
		}
	}

	return paths
}

// ParseNameNodeDirs returns the local paths listed in dfs.namenode.name.dir.
func ParseNameNodeDirs(confPath string) ([]string, error) {
	config, err := ParseHadoopXML(confPath)
	if err != nil {
		return nil, err
	}

	value, _ := config.Lookup("dfs.namenode.name.dir")
	if value == "" {
		return nil, fmt.Errorf("dfs.namenode.name.dir not found in %s", confPath)
	}

	paths := ParseFileURIs(value)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no valid paths found in dfs.namenode.name.dir")
	}

	return paths, nil
}
