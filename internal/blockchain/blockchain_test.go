package blockchain

import (
	"context"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redgoat650/mynft/internal/artifact"
	"github.com/redgoat650/mynft/internal/chaintest"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/deploy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataJSON = `{"name":"Cojin #1","description":"first","image":"ipfs://bafyimage/1.png","attributes":[{"trait_type":"level","value":3}]}`

func TestResolveURI(t *testing.T) {
	gw := "https://gateway.example/ipfs/"

	for _, tc := range []struct {
		in, want string
		wantErr  bool
	}{
		{in: "https://example.com/metadata/0", want: "https://example.com/metadata/0"},
		{in: "ipfs://bafycid/0.json", want: "https://gateway.example/ipfs/bafycid/0.json"},
		{in: "ipfs://ipfs/bafycid/0.json", want: "https://gateway.example/ipfs/bafycid/0.json"},
		{in: "ipfs://bafycid", want: "https://gateway.example/ipfs/bafycid"},
		{in: "ipfs://", wantErr: true},
		{in: "ftp://example.com/0", wantErr: true},
	} {
		got, err := ResolveURI(tc.in, gw)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}

		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ResolveURI("ipfs://bafycid", "")
	assert.Error(t, err)
}

func TestFetchMetadataHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metadata/1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(metadataJSON))
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client()}

	md, err := f.FetchMetadata(context.Background(), srv.URL+"/metadata/1")
	require.NoError(t, err)
	assert.Equal(t, "Cojin #1", md.GetName())
	assert.Equal(t, "first", md.GetDescription())
	assert.Equal(t, "ipfs://bafyimage/1.png", md.GetImageURI())
	assert.Equal(t, srv.URL+"/metadata/1", md.GetURI())
	require.Len(t, md.Attributes, 1)
	assert.Equal(t, "level", md.Attributes[0].TraitType)

	_, err = f.FetchMetadata(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "404")
}

func TestFetchMetadataIPFSGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipfs/bafycid/1.json", r.URL.Path)
		_, _ = w.Write([]byte(metadataJSON))
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client(), IPFSGateway: srv.URL + "/ipfs/"}

	md, err := f.FetchMetadata(context.Background(), "ipfs://bafycid/1.json")
	require.NoError(t, err)
	assert.Equal(t, "Cojin #1", md.Name)
}

func TestFetchMetadataDataURI(t *testing.T) {
	f := &Fetcher{}

	enc := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(metadataJSON))
	md, err := f.FetchMetadata(context.Background(), enc)
	require.NoError(t, err)
	assert.Equal(t, "Cojin #1", md.Name)

	md, err = f.FetchMetadata(context.Background(), `data:application/json,{"name":"plain"}`)
	require.NoError(t, err)
	assert.Equal(t, "plain", md.Name)

	_, err = f.FetchMetadata(context.Background(), "data:text/plain,hello")
	assert.Error(t, err)
}

func TestGetTokenMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(metadataJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b := chaintest.NewBackend()
	_, key := chaintest.NewKey()
	w, err := client.Signer(key, big.NewInt(chaintest.ChainID))
	require.NoError(t, err)

	d, err := deploy.Deploy(ctx, b, w, chaintest.Artifact())
	require.NoError(t, err)

	parsed, err := artifact.ParsedDefaultABI()
	require.NoError(t, err)
	n, err := client.Contract(d.Address, parsed, b)
	require.NoError(t, err)

	tx, err := n.Mint(ctx, w, w.Address, srv.URL+"/metadata/1")
	require.NoError(t, err)
	r, err := client.Wait(ctx, b, tx)
	require.NoError(t, err)
	id, err := n.MintedTokenID(r)
	require.NoError(t, err)

	f := &Fetcher{HTTP: srv.Client()}
	md, err := f.GetTokenMetadata(ctx, n, id)
	require.NoError(t, err)
	assert.Equal(t, "Cojin #1", md.GetName())
	assert.Equal(t, srv.URL+"/metadata/1", md.GetURI())
}

func TestFetchMetadataTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"` + strings.Repeat("a", maxMetadataLen) + `"}`))
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client()}

	_, err := f.FetchMetadata(context.Background(), srv.URL+"/metadata/1")
	assert.ErrorIs(t, err, ErrMetadataTooLarge)
}

func TestFetchMetadataAtLimit(t *testing.T) {
	body := `{"name":"x","description":"` + strings.Repeat("a", maxMetadataLen-len(`{"name":"x","description":""}`)) + `"}`
	require.Len(t, body, maxMetadataLen)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := &Fetcher{HTTP: srv.Client()}

	md, err := f.FetchMetadata(context.Background(), srv.URL+"/metadata/1")
	require.NoError(t, err)
	assert.Equal(t, "x", md.Name)
}
