package service

import (
	"context"
	"time"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
	domainerrors "github.com/bibliotecaonline/biblioteca-server/internal/errors"
	"github.com/bibliotecaonline/biblioteca-server/internal/id"
)

// viewSession is one browser's catalog state, advanced one event at a time.
type viewSession struct {
	state   catalog.State
	touched time.Time
}

// SessionEventType names a catalog state transition.
type SessionEventType string

// Session event types.
const (
	SessionSetQuery    SessionEventType = "query"
	SessionSetCategory SessionEventType = "category"
	SessionSetSort     SessionEventType = "sort"
	SessionChangePage  SessionEventType = "page"
	SessionClear       SessionEventType = "clear"
	SessionReload      SessionEventType = "reload"
)

// SessionEvent is the wire form of a catalog event.
type SessionEvent struct {
	Type     SessionEventType `json:"type" enum:"query,category,sort,page,clear,reload"`
	Query    string           `json:"query,omitempty"`
	Category string           `json:"category,omitempty"`
	Sort     string           `json:"sort,omitempty"`
	Page     int              `json:"page,omitempty"`
}

// SessionView is a session's rendered state plus what the last transition changed.
type SessionView struct {
	SessionID string       `json:"sessionId"`
	View      catalog.View `json:"view"`
	Effects   []string     `json:"effects"`
	ExpiresAt time.Time    `json:"expiresAt"`
	effect    catalog.Effect
}

// Effect returns the raw effect bits of the last transition.
func (v SessionView) Effect() catalog.Effect {
	return v.effect
}

func effectNames(e catalog.Effect) []string {
	names := []string{}
	if e.Has(catalog.EffectRender) {
		names = append(names, "render")
	}
	if e.Has(catalog.EffectStats) {
		names = append(names, "stats")
	}
	if e.Has(catalog.EffectScrollToList) {
		names = append(names, "scroll")
	}
	return names
}

// CreateSession starts a session on the default view.
func (s *CatalogService) CreateSession(ctx context.Context) (SessionView, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return SessionView{}, err
	}

	sessionID, err := id.Generate(id.PrefixViewSession)
	if err != nil {
		return SessionView{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create session")
	}

	now := time.Now()
	sess := &viewSession{state: catalog.NewState(books, s.opts.PageSize), touched: now}

	s.mu.Lock()
	s.sessions[sessionID] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetViewSessions(count)
	s.logger.Debug("view session created", "session_id", sessionID)

	return s.sessionView(sessionID, sess, catalog.EffectRender|catalog.EffectStats), nil
}

// Session returns the current view of a session.
func (s *CatalogService) Session(sessionID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveSession(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	sess.touched = time.Now()
	return s.sessionView(sessionID, sess, 0), nil
}

// ApplyEvent advances a session by one event. Rejected page changes are not errors:
// the view comes back unchanged with no effects.
func (s *CatalogService) ApplyEvent(ctx context.Context, sessionID string, ev SessionEvent) (SessionView, error) {
	if ev.Type == SessionReload {
		// Load replays the new source into every session, this one included.
		if _, err := s.Load(ctx); err != nil {
			return SessionView{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveSession(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	var effect catalog.Effect
	if ev.Type == SessionReload {
		effect = catalog.EffectRender | catalog.EffectStats
	} else {
		event, err := ev.toCatalogEvent()
		if err != nil {
			return SessionView{}, err
		}
		sess.state, effect = catalog.Step(sess.state, event)
	}
	sess.touched = time.Now()

	return s.sessionView(sessionID, sess, effect), nil
}

// DeleteSession drops a session.
func (s *CatalogService) DeleteSession(sessionID string) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return domainerrors.NotFoundf("session %s not found", sessionID)
	}
	s.metrics.SetViewSessions(count)
	return nil
}

// SweepSessions drops sessions idle for longer than the session TTL and returns how many
// were removed.
func (s *CatalogService) SweepSessions(now time.Time) int {
	s.mu.Lock()
	removed := 0
	for sid, sess := range s.sessions {
		if now.Sub(sess.touched) > s.opts.SessionTTL {
			delete(s.sessions, sid)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.SetViewSessions(count)
		s.logger.Debug("expired view sessions", "removed", removed, "remaining", count)
	}
	return removed
}

// RunSessionJanitor sweeps idle sessions every interval until ctx is done.
func (s *CatalogService) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepSessions(now)
		}
	}
}

// liveSession must be called with s.mu held.
func (s *CatalogService) liveSession(sessionID string) (*viewSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || time.Since(sess.touched) > s.opts.SessionTTL {
		return nil, domainerrors.NotFoundf("session %s not found", sessionID)
	}
	return sess, nil
}

func (s *CatalogService) sessionView(sessionID string, sess *viewSession, effect catalog.Effect) SessionView {
	return SessionView{
		SessionID: sessionID,
		View:      catalog.Render(sess.state),
		Effects:   effectNames(effect),
		ExpiresAt: sess.touched.Add(s.opts.SessionTTL),
		effect:    effect,
	}
}

func (ev SessionEvent) toCatalogEvent() (catalog.Event, error) {
	switch ev.Type {
	case SessionSetQuery:
		return catalog.SetQuery{Query: ev.Query}, nil
	case SessionSetCategory:
		return catalog.SetCategory{Category: normalizeCategory(ev.Category)}, nil
	case SessionSetSort:
		key := catalog.SortKey(ev.Sort)
		if !key.Valid() {
			return nil, domainerrors.ValidationWithDetails("unknown sort key",
				map[string]string{"sort": "must be one of: title author year year-desc"})
		}
		return catalog.SetSort{Key: key}, nil
	case SessionChangePage:
		return catalog.ChangePage{Page: ev.Page}, nil
	case SessionClear:
		return catalog.Clear{}, nil
	default:
		return nil, domainerrors.ValidationWithDetails("unknown event type",
			map[string]string{"type": "must be one of: query category sort page clear reload"})
	}
}
