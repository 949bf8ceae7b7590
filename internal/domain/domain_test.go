package domain

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestFarmState_FinishAtRoundsUp(t *testing.T) {
	s := FarmState{StartedAt: ptr(1_700_000_000_001)}
	finish, ok := s.FinishAt(time.Hour)
	require.True(t, ok)
	require.Equal(t, int64(1_700_000_001+3600), finish.Unix())

	s = FarmState{StartedAt: ptr(1_700_000_000_000)}
	finish, _ = s.FinishAt(time.Hour)
	require.Equal(t, int64(1_700_000_000+3600), finish.Unix())
}

func TestFarmState_Stage(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := 8 * time.Hour

	require.Equal(t, FarmNeedStart, FarmState{}.Stage(now, d))

	started := now.Add(-time.Hour).UnixMilli()
	active := FarmState{StartedAt: &started}
	require.Equal(t, FarmActive, active.Stage(now, d))
	require.Equal(t, 7*time.Hour, active.Remaining(now, d))

	old := now.Add(-9 * time.Hour).UnixMilli()
	due := FarmState{StartedAt: &old}
	require.Equal(t, FarmDue, due.Stage(now, d))
	require.Zero(t, due.Remaining(now, d))
}

func TestTapState_BatchClampedByEnergy(t *testing.T) {
	s := TapState{ID: 1, Clicks: 100, Energy: 5, Balance: 1000, BalanceFromClicks: 100}

	require.Equal(t, int64(5), s.BatchSize(42))

	next := s.Apply(42)
	require.Equal(t, int64(0), next.Energy)
	require.Equal(t, int64(105), next.Clicks)
	require.Equal(t, int64(1005), next.Balance)
	require.Equal(t, int64(105), next.BalanceFromClicks)
	require.Equal(t, s.ID, next.ID)
}

func TestTapState_NoEnergy(t *testing.T) {
	s := TapState{Energy: 0}
	require.Zero(t, s.BatchSize(30))
	require.Equal(t, s, s.Apply(30))
}

func TestAccessToken_Valid(t *testing.T) {
	now := time.Now()
	sign := func(exp time.Time) AccessToken {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":  1,
			"exp": exp.Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return AccessToken(tok)
	}

	require.True(t, sign(now.Add(time.Hour)).Valid(now))
	require.False(t, sign(now.Add(-time.Hour)).Valid(now))
	require.False(t, AccessToken("").Valid(now))
	require.False(t, AccessToken("not-a-jwt").Valid(now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.False(t, AccessToken(noExp).Valid(now))
}

func webViewURL(t *testing.T, user string) string {
	t.Helper()
	initData := url.Values{}
	initData.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	initData.Set("user", user)
	initData.Set("auth_date", "1700000000")
	initData.Set("hash", "c501b71e775f74ce10e377dea85a7ea24ecd640b223ea86dfe453e0eaed2e2b2")

	fragment := url.Values{}
	fragment.Set("tgWebAppData", initData.Encode())
	fragment.Set("tgWebAppVersion", "7.0")
	fragment.Set("tgWebAppPlatform", "android")
	return "https://api.gleam.bot/#" + fragment.Encode()
}

func TestParseWebAppURL(t *testing.T) {
	user := `{"id":279058397,"first_name":"Vlad","username":"vdkfrost","language_code":"ru"}`
	data, err := ParseWebAppURL(webViewURL(t, user))
	require.NoError(t, err)

	require.Equal(t, "AAHdF6IQAAAAAN0XohDhrOrc", data.QueryID)
	require.Equal(t, int64(279058397), data.User.ID)
	require.Equal(t, "vdkfrost", data.User.Username)
	require.Equal(t, int64(1700000000), data.AuthDate.Unix())
	require.NotEmpty(t, data.Hash)
	require.Contains(t, data.Raw, `user=`+user)
	require.NotContains(t, data.Raw, "%")
}

func TestParseWebAppURL_Errors(t *testing.T) {
	_, err := ParseWebAppURL("https://api.gleam.bot/#tgWebAppVersion=7.0")
	require.ErrorIs(t, err, ErrNoInitData)

	_, err = ParseWebAppURL("https://api.gleam.bot/#tgWebAppData=query_id%3D1")
	require.Error(t, err)
}

func TestInvalidSessionError(t *testing.T) {
	err := fmt.Errorf("extract: %w", &InvalidSessionError{Session: "acc1", Err: ErrUnauthorized})
	require.ErrorIs(t, err, ErrInvalidSession)
	require.ErrorIs(t, err, ErrUnauthorized)

	var ise *InvalidSessionError
	require.True(t, errors.As(err, &ise))
	require.Equal(t, "acc1", ise.Session)
}
