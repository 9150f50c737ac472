// Package hosts maintains /etc/hosts entries for this node and its peers.
package hosts

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"k8s.io/klog/v2"
	netutils "k8s.io/utils/net"

	"github.com/danieljhkim/hadoop-node/internal/state"
)

// Entry maps an address to its names, canonical name first.
type Entry struct {
	IP    string
	Names []string
}

// Line renders e as a hosts line. Entries whose IP is not a valid IPv4
// literal are commented out with note appended.
func (e Entry) Line(note string) string {
	line := strings.TrimSpace(e.IP + " " + strings.Join(e.Names, " "))
	if !netutils.IsIPv4String(e.IP) {
		return "# " + line + "  # " + note
	}
	return line
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func writeLines(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := renameio.WriteFile(path, []byte(data), 0644, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EnsureFirstLine makes "<addr> <fqdn> <hostname>" the first line of the
// hosts file at path, inserting it if line 1 differs. A non-IPv4 addr is
// still inserted, but commented out.
func EnsureFirstLine(path, addr, fqdn, hostname string) (string, error) {
	line := Entry{IP: addr, Names: []string{fqdn, hostname}}.Line("private-address did not return an IP")

	lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	if len(lines) > 0 && lines[0] == line {
		return line, nil
	}

	klog.V(2).Infof("inserting %q at top of %s", line, path)
	return line, writeLines(path, append([]string{line}, lines...))
}

// UpdateEntries rewrites the line for each entry's IP in place, or appends
// one if the IP is not listed yet. Other lines are left alone.
func UpdateEntries(path string, entries []Entry) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	for _, e := range entries {
		line := e.Line("INVALID IP")
		replaced := false
		for i, existing := range lines {
			fields := strings.Fields(existing)
			if existing == line || (len(fields) > 0 && fields[0] == e.IP) {
				lines[i] = line
				replaced = true
				break
			}
		}
		if !replaced {
			lines = append(lines, line)
		}
	}

	return writeLines(path, lines)
}

// RecordPeer remembers a peer's names under its IP in s. Call SyncPeers to
// write recorded peers to the hosts file.
func RecordPeer(s state.Store, e Entry) error {
	s.Set(state.EtcHostPrefix+e.IP, strings.Join(e.Names, " "))
	return s.Flush()
}

// Peers returns every recorded peer, ordered by key.
func Peers(s state.Store) []Entry {
	var entries []Entry
	for _, key := range s.Keys(state.EtcHostPrefix) {
		names, _ := s.Get(key)
		entries = append(entries, Entry{
			IP:    strings.TrimPrefix(key, state.EtcHostPrefix),
			Names: strings.Fields(names),
		})
	}
	return entries
}

// SyncPeers writes every recorded peer into the hosts file at path.
func SyncPeers(path string, s state.Store) error {
	return UpdateEntries(path, Peers(s))
}
