//go:build windows
// +build windows

package defender

import (
	"context"
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

const defenderNamespace = `root\Microsoft\Windows\Defender`

type msftMpPreference struct {
	EnableControlledFolderAccess uint8
}

// State reports the current Controlled Folder Access mode from the Defender
// WMI preference class. It lets callers skip redundant toggling and restore
// the prior mode accurately.
func (f *FolderProtection) State(_ context.Context) (State, error) {
	var prefs []msftMpPreference
	query := "SELECT EnableControlledFolderAccess FROM MSFT_MpPreference"
	if err := wmi.QueryNamespace(query, &prefs, defenderNamespace); err != nil {
		return StateDisabled, fmt.Errorf("failed to query Defender preferences: %w", err)
	}
	if len(prefs) == 0 {
		return StateDisabled, fmt.Errorf("no Defender preference instances returned")
	}
	return State(prefs[0].EnableControlledFolderAccess), nil
}
