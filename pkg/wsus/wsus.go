// pkg/wsus/wsus.go - definition-update approval against a WSUS server.
//
// The WSUS administration surface is only exposed to PowerShell (the
// UpdateServices module), so this package generates small scripts, runs them
// and parses the JSON they emit.

package wsus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/windowsadmins/patchkit/pkg/logging"
)

// Server identifies the patch-management server to drive. Discovery is out
// of scope; the caller supplies host, port and TLS from configuration.
type Server struct {
	Host    string
	Port    int
	UseSSL  bool
	Timeout time.Duration
}

// NewServer returns a Server with a default command timeout.
func NewServer(host string, port int, useSSL bool) *Server {
	return &Server{
		Host:    host,
		Port:    port,
		UseSSL:  useSSL,
		Timeout: 10 * time.Minute,
	}
}

// Update is one unapproved definition update as reported by Get-WsusUpdate.
type Update struct {
	Title      string   `json:"Title"`
	UpdateID   string   `json:"UpdateId"`
	KBArticles []string `json:"KBArticles"`
}

// ApprovalSummary totals one approval run.
type ApprovalSummary struct {
	Updates  int
	Approved int
	Failed   int
}

// connectSnippet builds the Get-WsusServer call shared by every script.
func (s *Server) connectSnippet() string {
	snippet := fmt.Sprintf("$server = Get-WsusServer -Name '%s' -PortNumber %d", psEscape(s.Host), s.Port)
	if s.UseSSL {
		snippet += " -UseSsl"
	}
	return snippet
}

// pendingScript lists unapproved updates in the Definition Updates
// classification as JSON.
func (s *Server) pendingScript() string {
	return s.connectSnippet() + "\n" +
		`Get-WsusUpdate -UpdateServer $server -Classification Definition -Approval Unapproved |
  ForEach-Object {
    [pscustomobject]@{
      Title      = $_.Update.Title
      UpdateId   = $_.Update.Id.UpdateId.Guid
      KBArticles = @($_.Update.KnowledgebaseArticles)
    }
  } | ConvertTo-Json -Depth 3`
}

// approveScript approves one update for one target group.
func (s *Server) approveScript(updateID, group string) string {
	return s.connectSnippet() + "\n" +
		fmt.Sprintf(
			"Get-WsusUpdate -UpdateServer $server -UpdateId '%s' | Approve-WsusUpdate -Action Install -TargetGroupName '%s'",
			psEscape(updateID), psEscape(group))
}

// PendingDefinitionUpdates enumerates unapproved definition updates.
func (s *Server) PendingDefinitionUpdates(ctx context.Context) ([]Update, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	output, err := runPowerShell(runCtx, s.pendingScript())
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate pending definition updates: %w", err)
	}
	return decodeUpdates(output)
}

// Approve approves a single update for a single target group.
func (s *Server) Approve(ctx context.Context, update Update, group string) error {
	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if _, err := runPowerShell(runCtx, s.approveScript(update.UpdateID, group)); err != nil {
		return fmt.Errorf("failed to approve %q for group %q: %w", update.Title, group, err)
	}
	return nil
}

// ApproveDefinitionUpdates approves every pending definition update for
// every target group. Per-update failures are downgraded to warnings and
// never abort the run.
func (s *Server) ApproveDefinitionUpdates(ctx context.Context, groups []string) (ApprovalSummary, error) {
	updates, err := s.PendingDefinitionUpdates(ctx)
	if err != nil {
		return ApprovalSummary{}, err
	}

	summary := ApprovalSummary{Updates: len(updates)}
	if len(updates) == 0 {
		logging.Info("No pending definition updates found")
		return summary, nil
	}

	for _, update := range updates {
		for _, group := range groups {
			if err := s.Approve(ctx, update, group); err != nil {
				logging.Warn("%v", err)
				summary.Failed++
				continue
			}
			logging.Info("Approved %q for group %q", update.Title, group)
			summary.Approved++
		}
	}

	return summary, nil
}

// decodeUpdates parses Get-WsusUpdate JSON. ConvertTo-Json emits a bare
// object rather than an array when exactly one update is pending, so both
// shapes are accepted.
func decodeUpdates(output string) ([]Update, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var single Update
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return nil, fmt.Errorf("failed to parse WSUS update JSON: %w", err)
		}
		return []Update{single}, nil
	}

	var updates []Update
	if err := json.Unmarshal([]byte(trimmed), &updates); err != nil {
		return nil, fmt.Errorf("failed to parse WSUS update JSON: %w", err)
	}
	return updates, nil
}

// psEscape doubles single quotes for safe interpolation into a
// single-quoted PowerShell string literal.
func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
