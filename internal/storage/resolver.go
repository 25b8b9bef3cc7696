package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// aliasTable is the on-disk shape of the alias file. Aliases are plain
// names bound to issue ids; they are independent of partitions, so a
// name keeps working after its issue is closed.
type aliasTable struct {
	Aliases map[string]int `yaml:"aliases"`
}

func (s *Store) aliasPath() string {
	return filepath.Join(s.root, aliasFileName)
}

func (s *Store) loadAliases() (map[string]int, error) {
	data, err := os.ReadFile(s.aliasPath())
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading alias table: %w", err)
	}
	var table aliasTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}
	if table.Aliases == nil {
		table.Aliases = map[string]int{}
	}
	return table.Aliases, nil
}

func (s *Store) saveAliases(aliases map[string]int) error {
	data, err := yaml.Marshal(aliasTable{Aliases: aliases})
	if err != nil {
		return fmt.Errorf("encoding alias table: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("creating issues directory: %w", err)
	}
	if err := os.WriteFile(s.aliasPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing alias table: %w", err)
	}
	return nil
}

// resolve maps a reference to an issue id. Numeric references are tried
// as ids first; everything else goes through the alias table. Numeric
// aliases cannot exist, so the two namespaces never collide.
func (s *Store) resolve(ref string, snapshot map[int]located) (int, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if _, ok := snapshot[id]; ok {
			return id, nil
		}
		return 0, &NotFoundError{Ref: ref}
	}
	aliases, err := s.loadAliases()
	if err != nil {
		return 0, err
	}
	if id, ok := aliases[ref]; ok {
		if _, ok := snapshot[id]; ok {
			return id, nil
		}
	}
	return 0, &NotFoundError{Ref: ref}
}

// Resolve maps a reference (numeric id or alias) to an issue id.
func (s *Store) Resolve(ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := s.scan()
	if err != nil {
		return 0, err
	}
	return s.resolve(ref, snapshot)
}

// Aliases returns a copy of the alias table.
func (s *Store) Aliases() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	aliases, err := s.loadAliases()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out, nil
}

// AliasesFor returns the alias names bound to an id, sorted.
func (s *Store) AliasesFor(id int) ([]string, error) {
	aliases, err := s.Aliases()
	if err != nil {
		return nil, err
	}
	var names []string
	for name, target := range aliases {
		if target == id {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AddAlias binds a name to the issue the reference resolves to. Binding
// the same name to the same issue again is a no-op; binding it to a
// different issue is a conflict.
func (s *Store) AddAlias(alias, ref string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}
	if _, err := strconv.Atoi(alias); err == nil {
		return fmt.Errorf("alias cannot be numeric: %q would be shadowed by issue ids", alias)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withFileLock(func() error {
		snapshot, err := s.scan()
		if err != nil {
			return err
		}
		id, err := s.resolve(ref, snapshot)
		if err != nil {
			return err
		}
		aliases, err := s.loadAliases()
		if err != nil {
			return err
		}
		if existing, ok := aliases[alias]; ok {
			if existing == id {
				return nil
			}
			return &AliasConflictError{Alias: alias, ID: existing}
		}
		aliases[alias] = id
		return s.saveAliases(aliases)
	})
}

// RemoveAlias deletes a name from the alias table.
func (s *Store) RemoveAlias(alias string) error {
	alias = strings.TrimSpace(alias)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withFileLock(func() error {
		aliases, err := s.loadAliases()
		if err != nil {
			return err
		}
		if _, ok := aliases[alias]; !ok {
			return &NotFoundError{Ref: alias}
		}
		delete(aliases, alias)
		return s.saveAliases(aliases)
	})
}
