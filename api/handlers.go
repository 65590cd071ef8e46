package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/league"
	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeagueService is the part of league.Service the handlers rely on.
type LeagueService interface {
	Leagues() ([]models.LeagueModel, error)
	Standings(leagueId uuid.UUID) ([]models.StandingsModel, error)
	AllStandings() (map[uuid.UUID][]models.StandingsModel, error)
	SimulateMatch(leagueId, homeId, awayId uuid.UUID, date time.Time) (league.SimulatedMatch, error)
	ScheduleMatch(leagueId, homeId, awayId uuid.UUID, date time.Time) (models.MatchModel, error)
	UpdateMatchStatus(matchId uuid.UUID, status models.MatchStatus) error
	RecordMatchResult(matchId uuid.UUID, result models.MatchModel) error
	CreatePlayoffs(leagueId uuid.UUID, limit int) ([][]models.PlayoffsModel, error)
	Playoffs(leagueId uuid.UUID) ([][]models.PlayoffsModel, error)
	DeletePlayoffs(leagueId uuid.UUID) error
	RecordPlayoffWinner(playoffsId, winner uuid.UUID) error
	Roster(teamId uuid.UUID) ([]models.PlayerModel, error)
}

type Handler struct {
	svc LeagueService
	now func() time.Time
}

func NewHandler(svc LeagueService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// --- DTOs for requests ---

type MatchRequest struct {
	HomeTeamId uuid.UUID  `json:"homeTeamId" binding:"required"`
	AwayTeamId uuid.UUID  `json:"awayTeamId" binding:"required"`
	MatchDate  *time.Time `json:"matchDate"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled in_progress completed cancelled"`
}

type ResultRequest struct {
	HomeScore   int `json:"homeScore" binding:"min=0"`
	AwayScore   int `json:"awayScore" binding:"min=0"`
	HomeSetsWon int `json:"homeSetsWon" binding:"min=0,max=5"`
	AwaySetsWon int `json:"awaySetsWon" binding:"min=0,max=5"`
}

type PlayoffsRequest struct {
	Teams int `json:"teams" binding:"omitempty,oneof=2 4 8 16"`
}

type WinnerRequest struct {
	Winner uuid.UUID `json:"winner" binding:"required"`
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		SendError(c, http.StatusBadRequest, "invalid "+name+": "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) matchDate(req MatchRequest) time.Time {
	if req.MatchDate != nil {
		return req.MatchDate.UTC()
	}
	return h.now().UTC()
}

func (h *Handler) GetLeagues(c *gin.Context) {
	leagues, err := h.svc.Leagues()
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Leagues retrieved successfully", leagues)
}

func (h *Handler) GetAllStandings(c *gin.Context) {
	tables, err := h.svc.AllStandings()
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Standings retrieved successfully", tables)
}

func (h *Handler) GetStandings(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	rows, err := h.svc.Standings(leagueId)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Standings retrieved successfully", rows)
}

func (h *Handler) GetRoster(c *gin.Context) {
	teamId, ok := paramUUID(c, "teamId")
	if !ok {
		return
	}
	players, err := h.svc.Roster(teamId)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Roster retrieved successfully", players)
}

func (h *Handler) ScheduleMatch(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBindingError(c, err)
		return
	}
	match, err := h.svc.ScheduleMatch(leagueId, req.HomeTeamId, req.AwayTeamId, h.matchDate(req))
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, "Match scheduled successfully", match)
}

func (h *Handler) SimulateMatch(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBindingError(c, err)
		return
	}
	simulated, err := h.svc.SimulateMatch(leagueId, req.HomeTeamId, req.AwayTeamId, h.matchDate(req))
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, "Match simulated successfully", simulated)
}

func (h *Handler) UpdateMatchStatus(c *gin.Context) {
	matchId, ok := paramUUID(c, "matchId")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBindingError(c, err)
		return
	}
	if err := h.svc.UpdateMatchStatus(matchId, models.MatchStatus(req.Status)); err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Match status updated successfully", gin.H{"matchId": matchId, "status": req.Status})
}

func (h *Handler) RecordMatchResult(c *gin.Context) {
	matchId, ok := paramUUID(c, "matchId")
	if !ok {
		return
	}
	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBindingError(c, err)
		return
	}
	result := models.MatchModel{
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		HomeSetsWon: req.HomeSetsWon,
		AwaySetsWon: req.AwaySetsWon,
	}
	if err := h.svc.RecordMatchResult(matchId, result); err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Match result recorded successfully", gin.H{"matchId": matchId})
}

func (h *Handler) CreatePlayoffs(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	var req PlayoffsRequest
	// the body is optional; without it the configured bracket size is used
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		SendBindingError(c, err)
		return
	}
	bracket, err := h.svc.CreatePlayoffs(leagueId, req.Teams)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusCreated, "Playoffs created successfully", bracket)
}

func (h *Handler) GetPlayoffs(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	bracket, err := h.svc.Playoffs(leagueId)
	if err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Playoffs retrieved successfully", bracket)
}

func (h *Handler) DeletePlayoffs(c *gin.Context) {
	leagueId, ok := paramUUID(c, "leagueId")
	if !ok {
		return
	}
	if err := h.svc.DeletePlayoffs(leagueId); err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Playoffs deleted successfully", nil)
}

func (h *Handler) RecordPlayoffWinner(c *gin.Context) {
	playoffsId, ok := paramUUID(c, "playoffsId")
	if !ok {
		return
	}
	var req WinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendBindingError(c, err)
		return
	}
	if err := h.svc.RecordPlayoffWinner(playoffsId, req.Winner); err != nil {
		SendDomainError(c, err)
		return
	}
	SendSuccess(c, http.StatusOK, "Playoffs winner recorded successfully", gin.H{"playoffsId": playoffsId, "winner": req.Winner})
}
