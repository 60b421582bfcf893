package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	"github.com/nzqo/beefi/bee"
	"github.com/nzqo/beefi/capture"
	"github.com/nzqo/beefi/encode"
	"github.com/nzqo/beefi/search"
)

// extract decodes every Compressed Beamforming frame in pcap_uri into a
// Batch and writes it as "<name>-bfi.json" into outdir_uri, or alongside the
// source file when outdir_uri is empty.
func extract(pcap_uri, outdir_uri string) error {
	log.Println("Processing capture:", pcap_uri)

	batch, err := bee.ExtractFromPcap(pcap_uri)
	if err != nil {
		return err
	}

	dir, file := filepath.Split(pcap_uri)
	if outdir_uri == "" {
		outdir_uri = dir
	}
	name := strings.TrimSuffix(file, filepath.Ext(file))
	out_uri := filepath.Join(outdir_uri, name+"-bfi.json")

	log.Println("Found", batch.NumPackets(), "feedback frames;", batch.Summary.DroppedFrames, "dropped")

	_, err = encode.WriteJSON(out_uri, batch)
	if err != nil {
		return err
	}

	log.Println("Finished capture:", pcap_uri)

	return nil
}

// extractTrawl discovers every capture file under dir_uri and submits each
// to a fixed-size worker pool for extraction, following the same
// trawl-then-pool shape as the project's directory-batch command.
func extractTrawl(dir_uri, outdir_uri string) error {
	log.Println("Searching directory:", dir_uri)
	items, err := search.FindCaptures(dir_uri)
	if err != nil {
		return err
	}
	log.Println("Number of captures to process:", len(items))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))
	defer pool.StopAndWait()

	for _, name := range items {
		item_uri := name
		pool.Submit(func() {
			if err := extract(item_uri, outdir_uri); err != nil {
				log.Printf("beefi: failed on %s: %v", item_uri, err)
			}
		})
	}

	return nil
}

// liveCapture runs the streaming engine against a live interface until
// interrupted, writing every observed Compressed Beamforming frame's
// decoded angles to stdout as they arrive.
func liveCapture(iface string, queueSize int) error {
	src, err := capture.NewLive(iface, capture.DefaultConfig())
	if err != nil {
		return err
	}

	cfg := bee.DefaultConfig()
	if queueSize > 0 {
		cfg.QueueSize = queueSize
	}
	engine := bee.New(src, cfg)
	defer engine.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("Listening on", iface, "- press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping; dropped", engine.DroppedCount(), "frames,", engine.ParseErrorCount(), "parse errors")
			return nil
		default:
		}

		frame, ok := engine.Poll()
		if !ok {
			continue
		}

		jsn, err := encode.JSONDumps(frame)
		if err != nil {
			log.Printf("beefi: failed to encode frame: %v", err)
			continue
		}
		fmt.Println(jsn)
	}
}

func main() {
	app := &cli.App{
		Name:  "beefi",
		Usage: "extract 802.11 Beamforming Feedback Information from packet captures",
		Commands: []*cli.Command{
			{
				Name:  "extract",
				Usage: "decode every feedback frame in a single pcap file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "pcap-uri",
						Usage:    "Path to a pcap/pcapng capture file.",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "Directory to write the output JSON file to.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return extract(cCtx.String("pcap-uri"), cCtx.String("outdir-uri"))
				},
			},
			{
				Name:  "trawl",
				Usage: "decode every capture file found under a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir-uri",
						Usage:    "Directory to search for capture files.",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "Directory to write output JSON files to.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return extractTrawl(cCtx.String("dir-uri"), cCtx.String("outdir-uri"))
				},
			},
			{
				Name:  "capture",
				Usage: "stream decoded feedback frames from a live interface",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "iface",
						Usage:    "Network interface to capture on.",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "queue-size",
						Usage: "Bounded result queue size.",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return liveCapture(cCtx.String("iface"), cCtx.Int("queue-size"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
