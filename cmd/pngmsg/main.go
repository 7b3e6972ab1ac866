package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/flaneur2020/pngmsg/pngmsg"
	"github.com/flaneur2020/pngmsg/pngmsg/logger"
	"github.com/opencontainers/go-digest"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	verbose    bool
	compress   bool
	decompress bool
	rawOutput  bool
	outputPath string
	noProgress bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pngmsg",
		Short: "A CLI tool for embedding and recovering messages in PNG chunks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLogLevel(logger.LogLevelInfo)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	// encode command
	encodeCmd := &cobra.Command{
		Use:   "encode <PNG> <TYPE> <MESSAGE|@FILE>",
		Short: "Embed a message into a PNG file under a custom chunk type",
		Args:  cobra.ExactArgs(3),
		Run:   runEncode,
	}
	encodeCmd.Flags().BoolVar(&compress, "compress", false, "Compress the payload with zlib before embedding")
	encodeCmd.Flags().StringVar(&outputPath, "output", "", "Write the result to this path instead of rewriting the input")
	encodeCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar for file payloads")

	// decode command
	decodeCmd := &cobra.Command{
		Use:   "decode <PNG> <TYPE>",
		Short: "Recover the message stored under a chunk type",
		Args:  cobra.ExactArgs(2),
		Run:   runDecode,
	}
	decodeCmd.Flags().BoolVar(&decompress, "decompress", false, "Unwrap a zlib-compressed payload")
	decodeCmd.Flags().BoolVar(&rawOutput, "raw", false, "Write the raw payload bytes to stdout")

	// remove command
	removeCmd := &cobra.Command{
		Use:   "remove <PNG> <TYPE>",
		Short: "Remove the first chunk of the given type from a PNG file",
		Args:  cobra.ExactArgs(2),
		Run:   runRemove,
	}

	// print command
	printCmd := &cobra.Command{
		Use:   "print <PNG>",
		Short: "List every chunk in a PNG file",
		Args:  cobra.ExactArgs(1),
		Run:   runPrint,
	}

	// check command
	checkCmd := &cobra.Command{
		Use:   "check <PNG>...",
		Short: "Verify the signature and every chunk checksum of one or more PNG files",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCheck,
	}
	checkCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar")

	rootCmd.AddCommand(encodeCmd, decodeCmd, removeCmd, printCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPNG(path string) (*pngmsg.PNG, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pngmsg.ParsePNG(raw)
}

// readPayload resolves the MESSAGE|@FILE argument. File payloads go through
// a progress bar since they can be arbitrarily large.
func readPayload(arg string, showProgress bool) ([]byte, error) {
	if !strings.HasPrefix(arg, "@") {
		return []byte(arg), nil
	}

	path := strings.TrimPrefix(arg, "@")
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var reader io.Reader = file
	if showProgress {
		bar := progressbar.DefaultBytes(info.Size(), fmt.Sprintf("Reading %s", path))
		reader = io.TeeReader(file, bar)
	}
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func runEncode(cmd *cobra.Command, args []string) {
	pngPath := args[0]
	typeName := args[1]
	payloadArg := args[2]

	chunkType, err := pngmsg.ChunkTypeFromString(typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !chunkType.IsValid() {
		logger.Warn("chunk type %q is not a valid PNG type code", typeName)
	}
	if chunkType.IsCritical() {
		logger.Warn("chunk type %q is critical; decoders that do not know it may reject the file", typeName)
	}

	png, err := loadPNG(pngPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	payload, err := readPayload(payloadArg, !noProgress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dgst, err := pngmsg.Embed(png, chunkType, payload, &pngmsg.EmbedOptions{Compress: compress})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	target := outputPath
	if target == "" {
		target = pngPath
	}
	if err := os.WriteFile(target, png.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("embedded payload digest: %s", dgst)
	fmt.Printf("Embedded %d bytes under %q into %s\n", len(payload), typeName, target)
}

func runDecode(cmd *cobra.Command, args []string) {
	pngPath := args[0]
	typeName := args[1]

	png, err := loadPNG(pngPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	payload, dgst, err := pngmsg.Extract(png, typeName, decompress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("recovered payload digest: %s", dgst)

	if rawOutput {
		if _, err := os.Stdout.Write(payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !utf8.Valid(payload) {
		fmt.Fprintf(os.Stderr, "Error: payload is not valid UTF-8, use --raw to write the bytes as-is\n")
		os.Exit(1)
	}
	fmt.Println(string(payload))
}

func runRemove(cmd *cobra.Command, args []string) {
	pngPath := args[0]
	typeName := args[1]

	png, err := loadPNG(pngPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	chunk, err := png.RemoveFirstChunk(typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(pngPath, png.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Removed chunk %s (%d bytes) from %s\n", chunk.Type(), chunk.Length(), pngPath)
}

func runPrint(cmd *cobra.Command, args []string) {
	pngPath := args[0]

	png, err := loadPNG(pngPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chunks in %s:\n", pngPath)
	for i, chunk := range png.Chunks() {
		chunkType := chunk.Type()
		fmt.Printf("%d: %s length=%d crc=0x%08x critical=%t public=%t safe_to_copy=%t valid=%t digest=%s\n",
			i, chunkType, chunk.Length(), chunk.CRC(),
			chunkType.IsCritical(), chunkType.IsPublic(), chunkType.IsSafeToCopy(), chunkType.IsValid(),
			digest.FromBytes(chunk.Data()))
	}
}

func runCheck(cmd *cobra.Command, args []string) {
	type checkResult struct {
		path string
		err  error
	}

	results := make([]checkResult, len(args))

	var bar *progressbar.ProgressBar
	if !noProgress && len(args) > 1 {
		bar = progressbar.Default(int64(len(args)), "Checking files")
	}

	// Verification is pure CPU work over independent files
	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			_, err := loadPNG(path)
			results[i] = checkResult{path: path, err: err}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, result := range results {
		if result.err != nil {
			failed++
			fmt.Printf("%s: FAILED: %v\n", result.path, result.err)
			continue
		}
		fmt.Printf("%s: OK\n", result.path)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed verification\n", failed, len(args))
		os.Exit(1)
	}
}
