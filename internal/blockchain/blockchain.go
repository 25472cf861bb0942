package blockchain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/blockchain/nft"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/logging"
)

const (
	httpScheme  = "http"
	httpsScheme = "https"
	ipfsScheme  = "ipfs"
	dataScheme  = "data"

	jsonDataPrefix = "application/json"
	maxMetadataLen = 1 << 20
)

var ErrMetadataTooLarge = errors.New("metadata exceeds 1 MiB")

// Fetcher resolves token URIs to metadata.
type Fetcher struct {
	HTTP        *http.Client
	IPFSGateway string
}

// GetTokenMetadata reads tokenURI(tokenID) from the contract and resolves it.
func (f *Fetcher) GetTokenMetadata(ctx context.Context, n *client.NFT, tokenID *big.Int) (nft.MetadataGetter, error) {
	uri, err := n.TokenURI(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	md, err := f.FetchMetadata(ctx, uri)
	if err != nil {
		return nil, err
	}

	return md, nil
}

func (f *Fetcher) FetchMetadata(ctx context.Context, uri string) (*nft.Metadata, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing token uri %q", uri)
	}

	var b []byte

	switch strings.ToLower(u.Scheme) {
	case dataScheme:
		b, err = decodeDataURI(uri)
	case httpScheme, httpsScheme, ipfsScheme:
		var target string
		target, err = ResolveURI(uri, f.IPFSGateway)
		if err != nil {
			return nil, err
		}
		b, err = f.get(ctx, target)
	default:
		return nil, errors.Errorf("unsupported token uri scheme %q", u.Scheme)
	}

	if err != nil {
		return nil, err
	}

	md := &nft.Metadata{}
	if err := json.Unmarshal(b, md); err != nil {
		return nil, errors.Wrapf(err, "decoding metadata from %s", uri)
	}

	md.URI = uri

	return md, nil
}

// ResolveURI maps ipfs:// URIs onto gateway and leaves http(s) URIs alone.
func ResolveURI(uri, gateway string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(err, "parsing uri %q", uri)
	}

	switch strings.ToLower(u.Scheme) {
	case httpScheme, httpsScheme:
		return uri, nil
	case ipfsScheme:
		if gateway == "" {
			return "", errors.New("ipfs gateway must be configured to resolve ipfs uris")
		}

		// ipfs://<cid>/<path> and the older ipfs://ipfs/<cid>/<path>.
		p := strings.TrimPrefix(u.Host+u.Path, "ipfs/")
		if p == "" {
			return "", errors.Errorf("ipfs uri %q has no content id", uri)
		}

		return url.JoinPath(gateway, strings.Split(p, "/")...)
	default:
		return "", errors.Errorf("unsupported uri scheme %q", u.Scheme)
	}
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	hc := f.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	logging.L().Debugw("fetching token metadata", "url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", target)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: %s", target, resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataLen+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", target)
	}

	if len(b) > maxMetadataLen {
		return nil, errors.Wrapf(ErrMetadataTooLarge, "fetching %s", target)
	}

	return b, nil
}

func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data uri")
	}

	if !strings.HasPrefix(header, jsonDataPrefix) {
		return nil, errors.Errorf("unsupported data uri media type %q", header)
	}

	if strings.HasSuffix(header, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(err, "decoding base64 data uri")
		}
		return b, nil
	}

	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unescaping data uri")
	}

	return []byte(s), nil
}
