package session

import (
	"github.com/orgball2608/community-feed-bot/internal/domain"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
)

func (m *Manager) fetchProfile(userID string, epoch uint64) {
	m.fetches.Add(1)
	go func() {
		defer m.fetches.Done()

		p, err := m.profiles.GetByUserID(m.ctx, userID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				m.logger.Warn("Profile not found", "user_id", userID)
			} else {
				m.logger.Error("Error fetching profile", "user_id", userID, "error", err)
			}
			return
		}

		m.applyProfile(p, userID, epoch)
	}()
}

func (m *Manager) applyProfile(p domain.Profile, userID string, epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch || m.identity == nil || m.identity.ID != userID {
		m.logger.Debug("Discarding stale profile", "user_id", userID, "epoch", epoch, "current_epoch", m.epoch)
		return
	}
	m.profile = &p
}
