package plugin

import (
	"fmt"

	"github.com/refracthq/refract/internal/logging"
)

// Service fronts the registry for the CLI, validating capability use
// before delegating to a plugin.
type Service struct {
	registry *Registry
	logger   logging.Logger
}

// NewService creates a plugin service over the given registry.
func NewService(registry *Registry, logger logging.Logger) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Service{registry: registry, logger: logger.With("component", "plugin_service")}, nil
}

// Plugins lists the registered plugins.
func (s *Service) Plugins() []Summary {
	return s.registry.Summaries()
}

// ListThreads enumerates a plugin's attachable threads.
func (s *Service) ListThreads(pluginID string) ([]ThreadRef, error) {
	p, err := s.registry.Get(pluginID)
	if err != nil {
		return nil, err
	}
	if !p.Capabilities().ListThreads {
		return nil, fmt.Errorf("plugin %s does not support listing threads", pluginID)
	}
	return p.ListThreads()
}

// Attach starts a session with a plugin. An empty threadID requires
// the AttachWithoutThread capability.
func (s *Service) Attach(pluginID, threadID string) (*Session, error) {
	p, err := s.registry.Get(pluginID)
	if err != nil {
		return nil, err
	}
	if threadID == "" && !p.Capabilities().AttachWithoutThread {
		return nil, fmt.Errorf("plugin %s requires an existing thread to attach", pluginID)
	}

	session, err := p.Attach(threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to plugin %s: %w", pluginID, err)
	}

	s.logger.Info("attached plugin session", "plugin_id", pluginID, "session_id", session.SessionID)
	return session, nil
}

// PostReview submits a review through an active session.
func (s *Service) PostReview(session *Session, payload ReviewPayload) (*SubmissionResult, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	p, err := s.registry.Get(session.PluginID)
	if err != nil {
		return nil, err
	}

	result, err := p.PostReview(session, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to post review via %s: %w", session.PluginID, err)
	}

	s.logger.Info("posted review", "plugin_id", session.PluginID,
		"session_id", session.SessionID, "accepted", result.Accepted)
	return result, nil
}

// PollRevision reports a session's revision progress. Plugins without
// the Polling capability report completed immediately.
func (s *Service) PollRevision(session *Session) (*RevisionProgress, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	p, err := s.registry.Get(session.PluginID)
	if err != nil {
		return nil, err
	}
	if !p.Capabilities().Polling {
		return &RevisionProgress{State: RevisionCompleted}, nil
	}
	return p.PollRevision(session)
}
