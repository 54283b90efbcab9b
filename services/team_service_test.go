package services

import (
	"testing"

	"oraculo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewGamificationService(db))

	require.NoError(t, db.Create(&models.Achievement{
		Name: "Espírito de Equipe", Description: "d",
		TriggerType: models.TriggerFirstTeamJoin, TriggerValue: 1,
	}).Error)

	owner := createUser(t, db, "ana", 0)
	team, grants, err := svc.CreateTeam(owner, "Suporte N2")
	require.NoError(t, err)
	require.NotNil(t, owner.TeamID)
	assert.Equal(t, team.ID, *owner.TeamID)
	require.Len(t, grants, 1)
	assert.Equal(t, "Espírito de Equipe", grants[0].Name)

	// Already in a team
	_, _, err = svc.CreateTeam(owner, "Outra")
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	// Name collision
	other := createUser(t, db, "bia", 0)
	_, _, err = svc.CreateTeam(other, "Suporte N2")
	assert.ErrorIs(t, err, ErrTeamNameTaken)
}

func TestJoinAndLeaveTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewGamificationService(db))

	owner := createUser(t, db, "owner", 0)
	team, _, err := svc.CreateTeam(owner, "Alpha")
	require.NoError(t, err)

	member := createUser(t, db, "member", 0)
	joined, _, err := svc.JoinTeam(member, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, joined.ID)

	// Owner cannot leave while members remain
	err = svc.LeaveTeam(owner)
	assert.ErrorIs(t, err, ErrOwnerCantLeave)

	require.NoError(t, svc.LeaveTeam(member))
	assert.Nil(t, member.TeamID)

	// Alone, the owner leaving disbands the team
	require.NoError(t, svc.LeaveTeam(owner))
	var teams int64
	db.Model(&models.Team{}).Count(&teams)
	assert.EqualValues(t, 0, teams)
}

func TestKickMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewGamificationService(db))

	owner := createUser(t, db, "owner", 0)
	team, _, err := svc.CreateTeam(owner, "Alpha")
	require.NoError(t, err)

	member := createUser(t, db, "member", 0)
	_, _, err = svc.JoinTeam(member, team.ID)
	require.NoError(t, err)

	// Only the owner can kick
	err = svc.KickMember(member, owner.ID)
	assert.ErrorIs(t, err, ErrNotTeamOwner)

	require.NoError(t, svc.KickMember(owner, member.ID))

	var fresh models.User
	require.NoError(t, db.First(&fresh, member.ID).Error)
	assert.Nil(t, fresh.TeamID)

	// Kicking a non-member fails
	err = svc.KickMember(owner, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTotalPointsIsDerived(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewGamificationService(db))

	owner := createUser(t, db, "owner", 30)
	member := createUser(t, db, "member", 70)
	team := createTeam(t, db, "Alpha", owner, member)

	total, err := svc.TotalPoints(db, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, total)

	// Membership change is reflected immediately
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", member.ID).Update("team_id", nil).Error)
	total, err = svc.TotalPoints(db, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, total)
}
