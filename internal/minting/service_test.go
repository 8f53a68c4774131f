package minting

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/originlabs/ipminter/internal/ipfs"
	"github.com/originlabs/ipminter/internal/license"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, _ *models.File) (*ipfs.Pin, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ipfs.Pin{CID: testCID, URL: ipfs.GatewayURL("https://gateway.pinata.cloud/ipfs/", testCID)}, nil
}

type fakeMinter struct {
	calls    int
	response string
	err      error
	metadata models.UploadMetadata
	terms    license.Terms
}

func (f *fakeMinter) MintFile(_ context.Context, _ *models.File, metadata models.UploadMetadata, terms license.Terms) (json.RawMessage, error) {
	f.calls++
	f.metadata = metadata
	f.terms = terms
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

func testTerms() license.Terms {
	return license.Build(big.NewInt(1e15), 604800, 0.25, common.Address{})
}

func fileOfSize(size int64) *models.File {
	return &models.File{Name: "art.png", Type: "image/png", Size: size}
}

func validRequest(m Minter) Request {
	return Request{
		Origin:        m,
		WalletAddress: "0xABC",
		File:          fileOfSize(1024),
		Name:          "Mountain Sunrise",
		Description:   "A photograph taken at dawn",
	}
}

func TestMintSuccess(t *testing.T) {
	hash := "0x" + strings.Repeat("a", 64)
	uploader := &fakeUploader{}
	minter := &fakeMinter{response: `{"transactionHash":"` + hash + `","tokenId":42}`}
	svc := NewService(uploader, testTerms())

	minting := false
	outcome, err := svc.Mint(context.Background(), validRequest(minter), func() { minting = true })
	require.NoError(t, err)

	assert.True(t, minting)
	assert.Equal(t, hash, outcome.TransactionHash)
	assert.Equal(t, "42", outcome.TokenID)
	assert.Equal(t, 1, uploader.calls)
	assert.Equal(t, 1, minter.calls)

	assert.Equal(t, "Mountain Sunrise", minter.metadata.Name)
	assert.Equal(t, "image/png", minter.metadata.Mimetype)
	assert.Equal(t, "https://gateway.pinata.cloud/ipfs/"+testCID, minter.metadata.Image)
	assert.Equal(t, 25, minter.terms.RoyaltyBps)
}

func TestMintMissingHashIsSuccess(t *testing.T) {
	minter := &fakeMinter{response: `{"status":"ok"}`}
	outcome, err := NewService(&fakeUploader{}, testTerms()).Mint(context.Background(), validRequest(minter), nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.TransactionHash)
	assert.Empty(t, outcome.TokenID)
}

func TestPreconditions(t *testing.T) {
	minter := &fakeMinter{}

	tests := []struct {
		name   string
		mutate func(*Request)
		reason string
	}{
		{name: "no session", mutate: func(r *Request) { r.Origin = nil }, reason: "authenticate"},
		{name: "no wallet", mutate: func(r *Request) { r.WalletAddress = "  " }, reason: "Wallet address"},
		{name: "no file", mutate: func(r *Request) { r.File = nil }, reason: "select a file"},
		{name: "oversized file", mutate: func(r *Request) { r.File = fileOfSize(10*1024*1024 + 1) }, reason: "10MB"},
		{name: "session checked before wallet", mutate: func(r *Request) { r.Origin = nil; r.WalletAddress = "" }, reason: "authenticate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &fakeUploader{}
			req := validRequest(minter)
			tt.mutate(&req)

			_, err := NewService(uploader, testTerms()).Mint(context.Background(), req, func() {
				t.Fatal("onMinting called despite failed precondition")
			})

			var pe *PreconditionError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Zero(t, uploader.calls, "no network call expected")
		})
	}
	assert.Zero(t, minter.calls)
}

func TestFileSizeBoundary(t *testing.T) {
	req := validRequest(&fakeMinter{response: `{}`})
	req.File = fileOfSize(10 * 1024 * 1024)

	_, err := NewService(&fakeUploader{}, testTerms()).Mint(context.Background(), req, nil)
	assert.NoError(t, err)
}

func TestValidationRunsFirst(t *testing.T) {
	uploader := &fakeUploader{}
	req := validRequest(nil)
	req.Name = "   "

	_, err := NewService(uploader, testTerms()).Mint(context.Background(), req, nil)

	var ve *validate.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, validate.EmptyField, ve.Kind)
	assert.Zero(t, uploader.calls)
}

func TestInvalidTermsArePrecondition(t *testing.T) {
	uploader := &fakeUploader{}
	terms := license.Build(big.NewInt(1), 0, 0.25, common.Address{})

	_, err := NewService(uploader, terms).Mint(context.Background(), validRequest(&fakeMinter{}), nil)

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Zero(t, uploader.calls)
}

func TestUploadFailureSkipsMint(t *testing.T) {
	minter := &fakeMinter{}
	uploader := &fakeUploader{err: &ipfs.UploadError{StatusCode: 401, Body: "unauthorized"}}

	called := false
	_, err := NewService(uploader, testTerms()).Mint(context.Background(), validRequest(minter), func() { called = true })

	var ue *ipfs.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 401, ue.StatusCode)
	assert.False(t, called)
	assert.Zero(t, minter.calls)
}

func TestExecuteClassifiesErrors(t *testing.T) {
	minter := &fakeMinter{err: errors.New("MetaMask Tx Signature: User rejected the request")}
	svc := NewService(&fakeUploader{}, testTerms())

	job, err := svc.Prepare(context.Background(), validRequest(minter))
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), job)
	var me *MintError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Transaction was rejected.", me.Title)
	assert.ErrorIs(t, err, minter.err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		title string
	}{
		{name: "fetch", msg: "TypeError: Failed to fetch", title: "Network request failed."},
		{name: "signature", msg: "invalid signature", title: "Transaction signature failed."},
		{name: "network", msg: "Network changed", title: "Network error. Please check your connection."},
		{name: "gas", msg: "insufficient funds for gas", title: "Insufficient gas fees."},
		{name: "rejected", msg: "user rejected transaction", title: "Transaction was rejected."},
		{name: "indexeddb", msg: "IndexedDB unavailable", title: "Storage error."},
		{name: "first phrase wins", msg: "gas estimation failed: user rejected", title: "Insufficient gas fees."},
		{name: "fetch before network", msg: "network fetch aborted", title: "Network request failed."},
		{name: "unmatched", msg: "boom", title: genericTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := Classify(errors.New(tt.msg))
			assert.Equal(t, tt.title, me.Title)
			assert.NotEmpty(t, me.Description)
		})
	}
}

func TestClassifyGenericKeepsMessage(t *testing.T) {
	me := Classify(errors.New("contract reverted"))
	assert.Equal(t, "contract reverted", me.Description)
}
