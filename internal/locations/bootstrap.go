package locations

import (
	"fmt"
	"sort"
	"strings"

	"clearlogo/internal/logging"
)

// PromptFunc asks the operator for the local directory mirroring a Plex
// storage location. It is called at most once per prefix.
type PromptFunc func(prefix string) (string, error)

// BootstrapResult summarizes a bootstrap pass.
type BootstrapResult struct {
	Added      int
	Unresolved []string
}

// Bootstrap fills in mappings for every prefix not yet mapped, asking the
// prompt function once per prefix. A prefix whose answer fails validation is
// skipped permanently for this run and reported in Unresolved; there is no
// retry, so a long batch never stalls on operator error. The mapping is
// persisted once at the end when anything was added.
func (m *Map) Bootstrap(prefixes []string, prompt PromptFunc) (BootstrapResult, error) {
	var result BootstrapResult

	pending := make([]string, 0, len(prefixes))
	seen := make(map[string]struct{}, len(prefixes))
	for _, prefix := range prefixes {
		prefix = normalizePrefix(prefix)
		if prefix == "" {
			continue
		}
		if _, dup := seen[prefix]; dup {
			continue
		}
		seen[prefix] = struct{}{}
		if _, mapped := m.Lookup(prefix); mapped {
			continue
		}
		pending = append(pending, prefix)
	}
	sort.Strings(pending)

	for _, prefix := range pending {
		answer, err := prompt(prefix)
		if err != nil {
			return result, fmt.Errorf("prompt for %q: %w", prefix, err)
		}
		answer = strings.TrimSpace(answer)
		if err := m.Set(prefix, answer); err != nil {
			m.logger.Warn("skipping unmapped location",
				logging.String("prefix", prefix),
				logging.Error(err))
			result.Unresolved = append(result.Unresolved, prefix)
			continue
		}
		result.Added++
	}

	if result.Added > 0 {
		if err := m.Save(); err != nil {
			return result, err
		}
		m.logger.Info("saved location mapping",
			logging.Int("added", result.Added),
			logging.String("path", m.path))
	}
	return result, nil
}
