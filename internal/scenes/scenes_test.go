package scenes

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/funfair/internal/scene"
	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/internal/store"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

type screen struct{ lines []string }

func (s *screen) DrawText(line string) { s.lines = append(s.lines, line) }

func (s *screen) text() string { return strings.Join(s.lines, "\n") }

type fixture struct {
	mem     *store.Memory
	session *session.Session
	graph   *scene.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	s := session.New(mem)
	s.Load()
	m := scene.New()
	require.NoError(t, Register(m, s))
	return &fixture{mem: mem, session: s, graph: m}
}

func (f *fixture) do(t *testing.T, line string) {
	t.Helper()
	fields := strings.Fields(line)
	require.NoError(t, f.graph.HandleInput(types.Input{Action: fields[0], Args: fields[1:]}))
}

func (f *fixture) render() string {
	var s screen
	f.graph.Render(&s)
	return s.text()
}

func TestNewPlayerFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Start(Title, nil))
	assert.Contains(t, f.render(), "FUNFAIR")

	f.do(t, "start")
	assert.Equal(t, CharSelect, f.graph.Current(), "no character yet")
	assert.True(t, f.session.Flag(types.FlagSeenIntro))

	f.do(t, "name Ada Lovelace")
	assert.Equal(t, "Ada Lovelace", f.session.PlayerName())

	f.do(t, "pick gandalf")
	assert.Equal(t, CharSelect, f.graph.Current())
	assert.Contains(t, f.render(), "No such character")

	f.do(t, "pick rose")
	assert.Equal(t, Hub, f.graph.Current())
	assert.Equal(t, types.CharacterRose, f.session.SelectedCharacter())
	assert.Contains(t, f.render(), "You are playing as rose.")
}

func TestPlayRoundReportsRankInHub(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectCharacter(types.CharacterRose))
	require.NoError(t, f.graph.Start(Hub, nil))

	f.do(t, "play ski normal")
	assert.Equal(t, types.GameSki, f.graph.Current())
	assert.Contains(t, f.render(), "ski (rose, normal)")

	require.NoError(t, f.graph.Update(3*time.Second))
	f.do(t, "score 1500")
	assert.Equal(t, Hub, f.graph.Current())

	out := f.render()
	assert.Contains(t, out, "ski: you scored 1500, rank #1!")
	assert.Contains(t, out, "Achievement unlocked: First Steps, High Roller")
	assert.Contains(t, out, "snowball   open")

	top := f.session.TopScores(types.GameSki, types.CharacterRose, types.DifficultyNormal)
	require.Len(t, top, 1)
	assert.Equal(t, 3.0, top[0].ElapsedSeconds)
	assert.Equal(t, 3*time.Second, f.session.Playtime())
}

func TestHubRejectsLockedAndUnknownGames(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectCharacter(types.CharacterOliver))
	require.NoError(t, f.graph.Start(Hub, nil))

	f.do(t, "play fishing")
	assert.Equal(t, Hub, f.graph.Current())
	assert.Contains(t, f.render(), "fishing is still locked.")

	f.do(t, "play curling")
	assert.Contains(t, f.render(), "No such minigame: curling")

	f.do(t, "play ski nightmare")
	assert.Contains(t, f.render(), "No such difficulty: nightmare")
}

func TestHubSendsPlayerWithoutCharacterToSelect(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Start(Hub, nil))
	f.do(t, "play ski")
	assert.Equal(t, CharSelect, f.graph.Current())
}

func TestPauseResumeKeepsRound(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectCharacter(types.CharacterMaple))
	require.NoError(t, f.graph.Start(Hub, nil))
	f.do(t, "play ski easy")

	require.NoError(t, f.graph.Update(time.Second))
	f.do(t, "pause")
	assert.True(t, f.graph.Paused())
	assert.Contains(t, f.render(), "-- paused: ski --")

	require.NoError(t, f.graph.Update(time.Hour))
	f.do(t, "resume")
	assert.False(t, f.graph.Paused())
	assert.Equal(t, types.GameSki, f.graph.Current())

	f.do(t, "score 10")
	top := f.session.TopScores(types.GameSki, types.CharacterMaple, types.DifficultyEasy)
	require.Len(t, top, 1)
	assert.Equal(t, 1.0, top[0].ElapsedSeconds, "time paused does not count")
}

func TestPauseToHubAbandonsRound(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectCharacter(types.CharacterMaple))
	require.NoError(t, f.graph.Start(Hub, nil))
	f.do(t, "play ski")
	f.do(t, "pause")
	f.do(t, "hub")

	assert.Equal(t, []string{Hub}, f.graph.Stack())
	out := f.render()
	assert.Contains(t, out, "Round abandoned.")
	assert.NotContains(t, out, "you scored")
}

func TestInvalidScoreStaysInGame(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SelectCharacter(types.CharacterRose))
	require.NoError(t, f.graph.Start(Hub, nil))
	f.do(t, "play ski")
	f.do(t, "score lots")
	assert.Equal(t, types.GameSki, f.graph.Current())
	assert.Contains(t, f.render(), "whole number")
}

func TestSaveFromHubReportsFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Start(Hub, nil))

	f.do(t, "save")
	assert.Contains(t, f.render(), "Game saved.")
	assert.Equal(t, 1, f.mem.Writes)

	f.mem.FailWrites(errors.New("read-only filesystem"))
	f.do(t, "save")
	assert.Contains(t, f.render(), "Could not save")
	assert.Equal(t, Hub, f.graph.Current(), "a failed save never stops play")
}

func TestEntry(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, CharSelect, Entry(f.session))
	require.NoError(t, f.session.SelectCharacter(types.CharacterRose))
	assert.Equal(t, Hub, Entry(f.session))
}

func TestRegisterBuildsMinigamesLazily(t *testing.T) {
	f := newFixture(t)
	for _, game := range f.session.Catalog().Games {
		assert.True(t, f.graph.Registered(game))
	}
	assert.ErrorIs(t, Register(f.graph, f.session), types.ErrDuplicateScene)
}
