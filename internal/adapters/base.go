package adapters

import (
	"fmt"

	"playlistporter/internal/auth"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
)

// BaseAdapter provides common functionality for platform adapters
type BaseAdapter struct {
	session  *auth.Session
	platform PlatformType
	logger   *log.Logger
}

// NewBaseAdapter creates a new BaseAdapter backed by session
func NewBaseAdapter(platform PlatformType, session *auth.Session, logger *log.Logger) BaseAdapter {
	return BaseAdapter{
		session:  session,
		platform: platform,
		logger:   utils.OrDiscard(logger).With("platform", string(platform)),
	}
}

// IsAuthenticated checks if the underlying session completed its handshake
func (b *BaseAdapter) IsAuthenticated() bool {
	return b.session != nil && b.session.State() == auth.Authenticated
}

// CheckAuth ensures the adapter is authenticated before making API calls
func (b *BaseAdapter) CheckAuth() error {
	if !b.IsAuthenticated() {
		return fmt.Errorf("%w: complete %s authorization first", ErrNotAuthenticated, b.PlatformName())
	}
	return nil
}

// Platform identifies the platform this adapter talks to
func (b *BaseAdapter) Platform() PlatformType {
	return b.platform
}

// PlatformName is the provider's display name
func (b *BaseAdapter) PlatformName() string {
	if b.session == nil {
		return string(b.platform)
	}
	return b.session.Provider()
}
