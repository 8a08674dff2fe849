package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/veneer-editor/veneer/internal/auth"
)

// tokenHashHolder tracks the configured API token hash across config reloads.
type tokenHashHolder struct {
	mu   sync.RWMutex
	hash string
}

func newTokenHashHolder(hash string) *tokenHashHolder {
	return &tokenHashHolder{hash: hash}
}

func (h *tokenHashHolder) get() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hash
}

func (h *tokenHashHolder) set(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hash = hash
}

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token <token>",
	Short: "Hash an API token for VENEER_API_TOKEN_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashToken(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
