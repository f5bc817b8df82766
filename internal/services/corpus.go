package services

import (
	"strings"
	"sync"
)

// RoutingCorpus holds the per-session text the router works against: the
// current resume and job description plus a bounded history of previous
// queries. It only shrinks on an explicit Reset.
type RoutingCorpus struct {
	mu           sync.Mutex
	sessionID    string
	resumeText   string
	jobDescText  string
	queryHistory []string
	historyLimit int
}

func NewRoutingCorpus(sessionID string, historyLimit int) *RoutingCorpus {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &RoutingCorpus{sessionID: sessionID, historyLimit: historyLimit}
}

func (c *RoutingCorpus) SessionID() string {
	return c.sessionID
}

func (c *RoutingCorpus) SetResume(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeText = text
}

func (c *RoutingCorpus) SetJobDesc(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobDescText = text
}

func (c *RoutingCorpus) ResumeText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumeText
}

func (c *RoutingCorpus) JobDescText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobDescText
}

// AppendQuery records a routed query, evicting the oldest entry once the
// history cap is reached. Blank queries are not recorded.
func (c *RoutingCorpus) AppendQuery(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.queryHistory = append(c.queryHistory, query)
	if len(c.queryHistory) > c.historyLimit {
		c.queryHistory = c.queryHistory[len(c.queryHistory)-c.historyLimit:]
	}
}

func (c *RoutingCorpus) QueryHistory() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := make([]string, len(c.queryHistory))
	copy(history, c.queryHistory)
	return history
}

// Fingerprint identifies the current resume/JD content for cache
// invalidation.
func (c *RoutingCorpus) Fingerprint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return InputFingerprint(c.resumeText, c.jobDescText)
}

// Reset drops all corpus content.
func (c *RoutingCorpus) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeText = ""
	c.jobDescText = ""
	c.queryHistory = nil
}
