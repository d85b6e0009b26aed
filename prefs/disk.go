// This file is part of arm7core.
//
// arm7core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// arm7core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with arm7core.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences.toml"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "# *** do not edit this file by hand while arm7core is running ***"

// Disk represents preference values as stored on disk. Preferences are keyed
// by a dotted name (eg. "hardware.arm7.clock") and written as a flat TOML
// table.
//
// Disk instances for different groups of preferences can share the same file.
// Entries in the file that belong to another group are preserved on Save().
type Disk struct {
	crit sync.Mutex

	path    string
	entries map[string]pref

	// keys with a value from the command line. these values are not
	// overwritten by Load() and are not written by Save()
	commandLine map[string]bool
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:        path,
		entries:     make(map[string]pref),
		commandLine: make(map[string]bool),
	}
	return dsk, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the file.
//
// If the key has been specified on the command line (see
// PushCommandLineStack()) then the command line value is applied immediately.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if strings.ContainsAny(key, " \t\n") {
		return fmt.Errorf("prefs: illegal key (%s)", key)
	}
	dsk.entries[key] = p

	if ok, v := GetCommandLinePref(key); ok {
		if err := p.Set(v); err != nil {
			return errors.Wrapf(err, "prefs: %s", key)
		}
		dsk.commandLine[key] = true
	}

	return nil
}

func (dsk *Disk) String() string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, dsk.entries[k]))
	}
	return s.String()
}

// read the preferences file into a generic map. a missing file is not an
// error and results in an empty map
func (dsk *Disk) read() (map[string]any, error) {
	m := make(map[string]any)

	data, err := os.ReadFile(dsk.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, errors.Wrap(err, "prefs")
	}

	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, errors.Wrapf(err, "prefs: %s", dsk.path)
	}

	return m, nil
}

// Load preference values from disk. Values in the file for keys that have not
// been added to the Disk instance are ignored.
func (dsk *Disk) Load() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	m, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if dsk.commandLine[k] {
			continue
		}
		v, ok := m[k]
		if !ok {
			continue
		}

		// all pref types accept a string representation so that's what we
		// use. it saves worrying about how toml has typed the value
		if err := p.Set(fmt.Sprintf("%v", v)); err != nil {
			return errors.Wrapf(err, "prefs: %s", k)
		}
	}

	return nil
}

// Save current preference values to disk.
func (dsk *Disk) Save() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	m, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if dsk.commandLine[k] {
			if _, ok := m[k]; ok {
				continue
			}
		}
		m[k] = p.Get()
	}

	var buf bytes.Buffer
	buf.WriteString(WarningBoilerPlate)
	buf.WriteString("\n")
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return errors.Wrap(err, "prefs")
	}

	if err := os.WriteFile(dsk.path, buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "prefs")
	}

	return nil
}
