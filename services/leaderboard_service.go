// services/leaderboard_service.go - Redis-backed rankings with DB fallback
package services

import (
	"context"
	"strconv"
	"time"

	"oraculo/logger"
	"oraculo/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardKey = "oraculo:leaderboard:users"

// LeaderboardService keeps user rankings in a Redis sorted set and falls
// back to a database scan when Redis is not configured. Ties on points
// rank the earlier achiever first.
type LeaderboardService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, rdb: rdb}
}

// compositeScore folds the update timestamp into the score so equal
// point totals order by who got there first. The timestamp occupies the
// fractional range and can never reorder users across point totals.
func compositeScore(points int, at time.Time) float64 {
	tiebreak := 1.0 - float64(at.Unix())/float64(1<<40)
	return float64(points) + tiebreak
}

// UpdateScore mirrors the user's committed point total into Redis.
func (s *LeaderboardService) UpdateScore(user *models.User) {
	if s.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.rdb.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  compositeScore(user.Points, time.Now().UTC()),
		Member: strconv.FormatUint(uint64(user.ID), 10),
	}).Err()
	if err != nil {
		logger.Get().WithError(err).Warn("failed to update leaderboard score")
	}
}

// RemoveUser drops a deleted user from the ranking.
func (s *LeaderboardService) RemoveUser(userID uint) {
	if s.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.rdb.ZRem(ctx, leaderboardKey, strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
		logger.Get().WithError(err).Warn("failed to remove leaderboard entry")
	}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Points int    `json:"points"`
	Level  string `json:"level,omitempty"`
}

// TopUsers returns the highest ranked users.
func (s *LeaderboardService) TopUsers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.rdb != nil {
		entries, err := s.topFromRedis(ctx, limit)
		if err == nil {
			return entries, nil
		}
		logger.Get().WithError(err).Warn("leaderboard read from redis failed, scanning database")
	}
	return s.topFromDB(limit)
}

func (s *LeaderboardService) topFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	members, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, z := range members {
		id, err := strconv.ParseUint(z.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return []LeaderboardEntry{}, nil
	}

	var users []models.User
	if err := s.db.Preload("Level").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: u.Points,
		}
		if u.Level != nil {
			entry.Level = u.Level.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaderboardService) topFromDB(limit int) ([]LeaderboardEntry, error) {
	var users []models.User
	err := s.db.Preload("Level").
		Order("points DESC, updated_at ASC").
		Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: u.Points,
		}
		if u.Level != nil {
			entry.Level = u.Level.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// TeamRanking aggregates member points per team, highest first. Team
// totals are always derived from the database, never cached.
type TeamRankingEntry struct {
	Rank        int    `json:"rank"`
	TeamID      uint   `json:"team_id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	TotalPoints int    `json:"total_points"`
}

func (s *LeaderboardService) TeamRanking(limit int) ([]TeamRankingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TeamRankingEntry
	err := s.db.Model(&models.Team{}).
		Select("teams.id AS team_id, teams.name AS name, COUNT(users.id) AS member_count, COALESCE(SUM(users.points), 0) AS total_points").
		Joins("LEFT JOIN users ON users.team_id = teams.id").
		Group("teams.id, teams.name").
		Order("total_points DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// Rebuild repopulates the sorted set from the users table. Used at boot
// so a fresh Redis instance converges with the database.
func (s *LeaderboardService) Rebuild(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	var users []models.User
	if err := s.db.Select("id", "points", "updated_at").Find(&users).Error; err != nil {
		return err
	}
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, leaderboardKey)
	for _, u := range users {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  compositeScore(u.Points, u.UpdatedAt),
			Member: strconv.FormatUint(uint64(u.ID), 10),
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}
