package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sellerAddr = "0x0000000000000000000000000000000000000001"
	buyerAddr  = "0x0000000000000000000000000000000000000002"
)

func execCommand(t *testing.T, home string, args ...string) string {
	t.Helper()
	app := New()
	out := &bytes.Buffer{}
	app.baseCmd.SetOut(out)
	app.baseCmd.SetArgs(append(args, "--home", home))
	require.NoError(t, app.Execute(context.Background()))
	return out.String()
}

func execCommandErr(t *testing.T, home string, args ...string) error {
	t.Helper()
	app := New()
	app.baseCmd.SetOut(&bytes.Buffer{})
	app.baseCmd.SetArgs(append(args, "--home", home))
	return app.Execute(context.Background())
}

func TestCli_DirectSaleFlow(t *testing.T) {
	home := t.TempDir()

	out := execCommand(t, home, "create-item", "--uri", "newuri", "--recipient", sellerAddr)
	require.Contains(t, out, "item 0 minted")

	out = execCommand(t, home, "funds", "mint",
		"--from", defaultAdminAddr, "--to", buyerAddr, "--amount", "20000")
	require.Contains(t, out, "minted 20000 payment units")

	execCommand(t, home, "approve", "token", "--from", sellerAddr, "--token-id", "0")
	out = execCommand(t, home, "list-item", "--from", sellerAddr, "--token-id", "0", "--price", "100")
	require.Contains(t, out, "sale 0 opened")

	execCommand(t, home, "approve", "funds", "--from", buyerAddr, "--amount", "100")
	out = execCommand(t, home, "buy-item", "0", "--from", buyerAddr)
	require.Contains(t, out, "sale 0 settled")

	out = execCommand(t, home, "funds", "balance", "--address", sellerAddr)
	require.Contains(t, out, ": 100")

	out = execCommand(t, home, "show", "sale", "0")
	require.Contains(t, out, "active false")
}

func TestCli_BatchLimit(t *testing.T) {
	home := t.TempDir()

	out := execCommand(t, home, "batch-limit")
	require.Contains(t, out, "batch limit: 3")

	// only the admin may change the limit
	err := execCommandErr(t, home, "batch-limit", "1", "--from", sellerAddr)
	require.ErrorContains(t, err, "admin")

	out = execCommand(t, home, "batch-limit", "1", "--from", defaultAdminAddr)
	require.Contains(t, out, "batch limit: 1")

	err = execCommandErr(t, home, "create-batch-item", "--uri", "newuri",
		"--recipient", sellerAddr, "--token-ids", "0,1", "--amounts", "1,1")
	require.ErrorContains(t, err, "limit")
}

func TestCli_AuctionFlow(t *testing.T) {
	home := t.TempDir()

	out := execCommand(t, home, "create-batch-item", "--uri", "newuri",
		"--recipient", sellerAddr, "--token-ids", "0", "--amounts", "1")
	require.Contains(t, out, "batch of 1 items minted")

	execCommand(t, home, "funds", "mint",
		"--from", defaultAdminAddr, "--to", buyerAddr, "--amount", "20000")
	execCommand(t, home, "approve", "all", "--from", sellerAddr, "--registry", defaultMultiRegAddr)

	out = execCommand(t, home, "list-on-auction", "--from", sellerAddr,
		"--registry", defaultMultiRegAddr, "--token-id", "0", "--price", "100")
	require.Contains(t, out, "auction 0 opened")

	execCommand(t, home, "approve", "funds", "--from", buyerAddr, "--amount", "150")
	out = execCommand(t, home, "make-bid", "0", "--from", buyerAddr, "--price", "150")
	require.Contains(t, out, "bid 150 accepted")

	out = execCommand(t, home, "show", "auction", "0")
	require.Contains(t, out, "current bid: 150")

	// the end time is days away
	err := execCommandErr(t, home, "finish-auction", "0", "--from", sellerAddr)
	require.ErrorContains(t, err, "not time to finish")
}
