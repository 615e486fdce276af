package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	b := dsl.New()
	b.Stage("seed").To("soil").Rule(50, 98, 2).Rule(52, 50, 48)
	b.Stage("soil").To("location").Rule(0, 15, 37).Rule(37, 52, 2).Rule(39, 0, 15)
	loader, err := b.Build()
	require.NoError(t, err)

	eng, err := remap.New("", remap.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(eng)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestHandleMinimum(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	resp, err := s.handleMinimum(ctx, mcp.CallToolRequest{}, QueryArgs{Seeds: "79, 14, 55, 13", Mode: "points"})
	require.NoError(t, err)
	// 79->81, 14->53, 55->57, 13->52
	assert.Equal(t, int64(52), resp.Minimum)

	resp, err = s.handleMinimum(ctx, mcp.CallToolRequest{}, QueryArgs{Seeds: "79 14"})
	require.NoError(t, err)
	assert.Equal(t, int64(81), resp.Minimum)
}

func TestHandleMinimum_BadSeeds(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleMinimum(ctx, mcp.CallToolRequest{}, QueryArgs{Seeds: "79 x"})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = s.handleMinimum(ctx, mcp.CallToolRequest{}, QueryArgs{Seeds: "79 14 55"})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = s.handleMinimum(ctx, mcp.CallToolRequest{}, QueryArgs{Seeds: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestHandleEvaluate(t *testing.T) {
	s := newServer(t)

	resp, err := s.handleEvaluate(context.Background(), mcp.CallToolRequest{}, QueryArgs{Seeds: "14", Mode: "points"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Range{domain.Point(53)}, resp.Ranges)

	resp, err = s.handleEvaluate(context.Background(), mcp.CallToolRequest{}, QueryArgs{Seeds: " "})
	require.NoError(t, err)
	assert.NotNil(t, resp.Ranges)
	assert.Empty(t, resp.Ranges)
}

func TestHandleLocate(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleLocate(ctx, callRequest(map[string]any{"point": "98"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "50", text.Text)

	res, err = s.handleLocate(ctx, callRequest(map[string]any{"point": "ninety"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleLocate(ctx, callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestStages(t *testing.T) {
	s := newServer(t)

	data, err := json.Marshal(s.stages())
	require.NoError(t, err)

	var views []StageView
	require.NoError(t, json.Unmarshal(data, &views))
	require.Len(t, views, 2)

	ids := []string{views[0].ID, views[1].ID}
	assert.ElementsMatch(t, []string{"seed", "soil"}, ids)
}
