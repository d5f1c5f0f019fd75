// btc-txkit CLI - Bitcoin transaction inspection and signing toolkit
//
// Example usage:
//
//	# Decode a raw transaction
//	btc-txkit decode <hex>
//
//	# Compute the signature hash for one input
//	btc-txkit sighash --tx <hex> --input 0 --subscript <hex> --amount 100000000
//
//	# Sign a computed signature hash with a WIF key
//	btc-txkit sign --wif <wif> --hash <hex>
//
//	# Compute the legacy minimum fee
//	btc-txkit minfee --tx <hex> --sending
//
//	# Parse a BIP 21 payment request
//	btc-txkit parse-uri "bitcoin:bc1q...?amount=1.5&label=coffee"
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/suffix-labs/btc-txkit/pkg/bip21"
	"github.com/suffix-labs/btc-txkit/pkg/fees"
	"github.com/suffix-labs/btc-txkit/pkg/keys"
	"github.com/suffix-labs/btc-txkit/pkg/sighash"
	"github.com/suffix-labs/btc-txkit/pkg/tx"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "decode":
		cmdDecode(logger, args)
	case "sighash":
		cmdSighash(logger, args)
	case "sign":
		cmdSign(logger, args)
	case "minfee":
		cmdMinFee(logger, args)
	case "parse-uri":
		cmdParseURI(logger, args)
	case "version":
		fmt.Println("btc-txkit v0.1.0")
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`btc-txkit - Bitcoin transaction toolkit

Usage:
  btc-txkit <command> [options]

Commands:
  decode <hex>                 Decode a raw transaction and print a summary
  sighash                      Compute the signature hash for one input
  sign                         Sign a computed signature hash with a WIF key
  minfee                       Compute the legacy minimum relay/send fee
  parse-uri <uri>              Parse a BIP 21 payment request URI
  version                      Show version information
  help                         Show this help message`)
}

func parseTxArg(logger *zap.Logger, rawHex string) *tx.Transaction {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		logger.Fatal("transaction hex is invalid", zap.Error(err))
	}
	transaction, err := tx.Parse(raw)
	if err != nil {
		logger.Fatal("failed to parse transaction", zap.Error(err))
	}
	return transaction
}

func cmdDecode(logger *zap.Logger, args []string) {
	var opts struct {
		Args struct {
			Hex string `positional-arg-name:"hex" required:"true"`
		} `positional-args:"true"`
	}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		os.Exit(1)
	}

	transaction := parseTxArg(logger, opts.Args.Hex)

	fmt.Printf("txid:     %s\n", transaction.TxID())
	fmt.Printf("wtxid:    %s\n", transaction.WitnessID())
	fmt.Printf("version:  %d\n", transaction.Version)
	fmt.Printf("locktime: %d\n", transaction.LockTime)
	fmt.Printf("size:     %d (base %d, weight %d, vsize %d)\n",
		transaction.TotalSize(), transaction.BaseSize(),
		transaction.Weight(), transaction.VirtualSize())

	for i, in := range transaction.Inputs() {
		fmt.Printf("input %d:  %s:%d seq=0x%08x witness=%d\n",
			i, in.PreviousHash.String(), in.PreviousIndex, in.Sequence, len(in.Witness))
	}
	for i, out := range transaction.Outputs() {
		fmt.Printf("output %d: %d -> %x\n", i, out.Value, out.PkScript)
	}
}

func cmdSighash(logger *zap.Logger, args []string) {
	var opts struct {
		Tx        string `long:"tx" description:"raw transaction hex" required:"true"`
		Input     uint32 `long:"input" description:"input index to authorize" required:"true"`
		Subscript string `long:"subscript" description:"script code hex" required:"true"`
		Amount    int64  `long:"amount" description:"value of the output being spent" required:"true"`
		HashType  uint32 `long:"hashtype" description:"signature hash type" default:"1"`
	}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		os.Exit(1)
	}

	transaction := parseTxArg(logger, opts.Tx)
	subscript, err := hex.DecodeString(opts.Subscript)
	if err != nil {
		logger.Fatal("subscript hex is invalid", zap.Error(err))
	}

	ins := transaction.Inputs()
	if int(opts.Input) < len(ins) {
		ins[opts.Input].Value = opts.Amount
	}

	hash, err := sighash.Compute(transaction, subscript, opts.Input, sighash.HashType(opts.HashType))
	if err != nil {
		logger.Fatal("sighash computation failed", zap.Error(err))
	}
	fmt.Printf("%x\n", hash[:])
}

func cmdSign(logger *zap.Logger, args []string) {
	var opts struct {
		WIF  string `long:"wif" description:"WIF-encoded private key" required:"true"`
		Hash string `long:"hash" description:"32-byte signature hash hex" required:"true"`
	}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		os.Exit(1)
	}

	key, err := keys.ParsePrivateKeyWIF(opts.WIF)
	if err != nil {
		logger.Fatal("failed to parse private key", zap.Error(err))
	}
	raw, err := hex.DecodeString(opts.Hash)
	if err != nil || len(raw) != chainhash.HashSize {
		logger.Fatal("signature hash must be 32 bytes of hex", zap.Error(err))
	}
	var hash chainhash.Hash
	copy(hash[:], raw)

	fmt.Printf("pubkey:    %x\n", key.PublicKey().Bytes())
	fmt.Printf("signature: %x\n", key.Sign(hash))
}

func cmdMinFee(logger *zap.Logger, args []string) {
	var opts struct {
		Tx       string `long:"tx" description:"raw transaction hex" required:"true"`
		Sending  bool   `long:"sending" description:"apply the send policy instead of the relay policy"`
		Settings string `long:"settings" description:"path to the persisted settings database"`
	}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		os.Exit(1)
	}

	transaction := parseTxArg(logger, opts.Tx)

	estimator := fees.NewEstimator(fees.DefaultPolicy())
	if opts.Settings != "" {
		store, err := fees.OpenBoltStore(opts.Settings)
		if err != nil {
			logger.Fatal("failed to open settings store", zap.Error(err))
		}
		defer store.Close()
		estimator = fees.NewEstimatorFromStore(fees.DefaultPolicy(), store)
	}

	fmt.Printf("%d\n", estimator.MinimumFee(transaction, opts.Sending))
}

func cmdParseURI(logger *zap.Logger, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: btc-txkit parse-uri <uri>")
		os.Exit(1)
	}

	req, err := bip21.Parse(args[0])
	if err != nil {
		logger.Fatal("failed to parse URI", zap.Error(err))
	}

	fmt.Printf("Address: %s\n", req.Address)
	if req.Amount != nil {
		fmt.Printf("Amount:  %s\n", req.Amount)
	} else {
		fmt.Println("Amount:  (user specified)")
	}
	if req.Label != nil {
		fmt.Printf("Label:   %s\n", *req.Label)
	}
	if req.Message != nil {
		fmt.Printf("Message: %s\n", *req.Message)
	}
	fmt.Printf("\nRe-encoded URI:\n%s\n", req.Encode())
}
