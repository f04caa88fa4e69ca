package danmaku_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/anirange/internal/danmaku"
	"github.com/vmunix/anirange/internal/danmaku/mocks"
	"github.com/vmunix/anirange/pkg/episode"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProvider(ctrl *gomock.Controller, id danmaku.ProviderID) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().ID().Return(id).AnyTimes()
	return p
}

func result(id danmaku.ProviderID, texts ...string) danmaku.FetchResult {
	comments := make([]danmaku.Comment, len(texts))
	for i, text := range texts {
		comments[i] = danmaku.Comment{Text: text}
	}
	return danmaku.FetchResult{
		ProviderID: id,
		Match:      danmaku.MatchInfo{ProviderID: id, Method: danmaku.MatchExact, Count: len(texts)},
		Comments:   comments,
	}
}

func providerIDs(results []danmaku.FetchResult) []danmaku.ProviderID {
	ids := make([]danmaku.ProviderID, len(results))
	for i, r := range results {
		ids[i] = r.ProviderID
	}
	return ids
}

var frieren5 = danmaku.Request{
	SubjectID:   400602,
	SubjectName: "Sousou no Frieren",
	EpisodeID:   5,
	Episode:     episode.NormalInt(5),
}

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), frieren5).Return([]danmaku.FetchResult{result("a", "hi"), result("a", "yo")}, nil)
	b := newProvider(ctrl, "b")
	b.EXPECT().Fetch(gomock.Any(), frieren5).Return([]danmaku.FetchResult{result("b", "wow")}, nil)

	loader := danmaku.NewLoader([]danmaku.Provider{a, b}, nil, testLogger())
	assert.Equal(t, danmaku.StatusIdle, loader.State().Status)

	got, err := loader.Load(context.Background(), frieren5)
	require.NoError(t, err)

	assert.Equal(t, []danmaku.ProviderID{"a", "a", "b"}, providerIDs(got))
	assert.Equal(t, danmaku.State{Status: danmaku.StatusSuccess}, loader.State())
	assert.Equal(t, got, loader.Results())
}

func TestLoader_Load_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	b := newProvider(ctrl, "b")
	b.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]danmaku.FetchResult{result("b", "wow")}, nil)

	loader := danmaku.NewLoader([]danmaku.Provider{a, b}, nil, testLogger())
	got, err := loader.Load(context.Background(), frieren5)

	require.NoError(t, err)
	assert.Equal(t, []danmaku.ProviderID{"b"}, providerIDs(got))
	assert.Equal(t, danmaku.StatusSuccess, loader.State().Status)
}

func TestLoader_Load_AllFail(t *testing.T) {
	ctrl := gomock.NewController(t)

	errA := errors.New("timeout")
	errB := errors.New("rate limited")
	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errA)
	b := newProvider(ctrl, "b")
	b.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, errB)

	loader := danmaku.NewLoader([]danmaku.Provider{a, b}, nil, testLogger())
	got, err := loader.Load(context.Background(), frieren5)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "provider a")

	state := loader.State()
	assert.Equal(t, danmaku.StatusFailed, state.Status)
	assert.ErrorIs(t, state.Err, errA)
	assert.Empty(t, loader.Results())
}

func TestLoader_Load_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)

	ctx, cancel := context.WithCancel(context.Background())
	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ danmaku.Request) ([]danmaku.FetchResult, error) {
			cancel()
			return nil, ctx.Err()
		})

	loader := danmaku.NewLoader([]danmaku.Provider{a}, nil, testLogger())
	_, err := loader.Load(ctx, frieren5)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, danmaku.StatusIdle, loader.State().Status)
}

func TestLoader_Load_NoProviders(t *testing.T) {
	loader := danmaku.NewLoader(nil, nil, testLogger())
	got, err := loader.Load(context.Background(), frieren5)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, danmaku.StatusSuccess, loader.State().Status)
}

func TestLoader_Load_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)

	toggle := mocks.NewMockToggle(ctrl)
	toggle.EXPECT().Enabled().Return(false)
	a := newProvider(ctrl, "a") // Fetch must not be called

	loader := danmaku.NewLoader([]danmaku.Provider{a}, toggle, testLogger())
	got, err := loader.Load(context.Background(), frieren5)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, danmaku.StatusIdle, loader.State().Status)
}

func TestLoader_Override(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]danmaku.FetchResult{result("a", "one")}, nil)
	b := newProvider(ctrl, "b")
	b.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]danmaku.FetchResult{result("b", "two")}, nil)

	loader := danmaku.NewLoader([]danmaku.Provider{a, b}, nil, testLogger())
	_, err := loader.Load(context.Background(), frieren5)
	require.NoError(t, err)

	loader.Override("c", []danmaku.FetchResult{result("c", "extra")})
	loader.Override("a", []danmaku.FetchResult{result("a", "picked"), result("a", "picked too")})

	got := loader.Results()
	assert.Equal(t, []danmaku.ProviderID{"a", "a", "b", "c"}, providerIDs(got))
	assert.Equal(t, "picked", got[0].Comments[0].Text)
	assert.Equal(t, "two", got[2].Comments[0].Text)

	loader.Override("a", nil)
	assert.Equal(t, []danmaku.ProviderID{"b", "c"}, providerIDs(loader.Results()))
}

func TestLoader_Override_BeforeLoad(t *testing.T) {
	loader := danmaku.NewLoader(nil, nil, testLogger())

	loader.Override("b", []danmaku.FetchResult{result("b", "x")})
	loader.Override("a", []danmaku.FetchResult{result("a", "y")})

	assert.Equal(t, []danmaku.ProviderID{"b", "a"}, providerIDs(loader.Results()))
}

func TestLoader_OverridesFollowEpisode(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]danmaku.FetchResult{result("a", "orig")}, nil).Times(3)

	loader := danmaku.NewLoader([]danmaku.Provider{a}, nil, testLogger())
	ctx := context.Background()

	_, err := loader.Load(ctx, frieren5)
	require.NoError(t, err)
	loader.Override("a", []danmaku.FetchResult{result("a", "manual")})

	// Reloading the same episode keeps the override.
	got, err := loader.Load(ctx, frieren5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "manual", got[0].Comments[0].Text)

	next := frieren5
	next.EpisodeID = 6
	next.Episode = episode.NormalInt(6)
	got, err = loader.Load(ctx, next)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "orig", got[0].Comments[0].Text)
}

func TestLoader_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	a.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]danmaku.FetchResult{result("a", "orig")}, nil)

	loader := danmaku.NewLoader([]danmaku.Provider{a}, nil, testLogger())
	_, err := loader.Load(context.Background(), frieren5)
	require.NoError(t, err)
	loader.Override("b", []danmaku.FetchResult{result("b", "x")})

	loader.Clear()

	assert.Empty(t, loader.Results())
	assert.Equal(t, danmaku.StatusIdle, loader.State().Status)
}

func TestSelectProviders(t *testing.T) {
	ctrl := gomock.NewController(t)

	a := newProvider(ctrl, "a")
	b := newProvider(ctrl, "b")
	all := []danmaku.Provider{a, b}

	got, err := danmaku.SelectProviders(all, nil)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = danmaku.SelectProviders(all, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, []danmaku.Provider{b}, got)

	_, err = danmaku.SelectProviders(all, []string{"b", "nope"})
	assert.ErrorIs(t, err, danmaku.ErrUnknownProvider)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "exact", danmaku.MatchExact.String())
	assert.Equal(t, "fuzzy", danmaku.MatchFuzzy.String())
	assert.Equal(t, "none", danmaku.MatchNone.String())
	assert.Equal(t, "top", danmaku.PositionTop.String())
	assert.Equal(t, "scroll", danmaku.PositionScroll.String())
	assert.Equal(t, "failed", danmaku.StatusFailed.String())
	assert.Equal(t, "idle", danmaku.StatusIdle.String())
}
