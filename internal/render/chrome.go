package render

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/psidex/simgraph/internal/matrix"
)

// ChromeHeatMap defines a MatrixRenderer that renders the HTML heat-map and then takes
// a screenshot of it with a headless Chrome, so the PNG looks exactly like the page.
type ChromeHeatMap struct {
	HTML    HTMLHeatMap
	Timeout time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

var _ MatrixRenderer = ChromeHeatMap{}

func (c ChromeHeatMap) RenderToFile(ctx context.Context, t matrix.Triple, filename string) error {
	if err := c.HTML.RenderToFile(ctx, t, filename); err != nil {
		return err
	}
	page, err := filepath.Abs(filename + ".html")
	if err != nil {
		return err
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, c.Timeout)
	defer timeoutCancel()

	chromeCtx, cancel := chromedp.NewContext(timeoutCtx)
	defer cancel()

	downloadedBytes := atomic.Int64{}
	countBytesAction := func(ctx context.Context) error {
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			switch ev := ev.(type) {
			case *network.EventLoadingFinished:
				downloadedBytes.Add(int64(ev.EncodedDataLength))
			}
		})
		return nil
	}

	width, height := c.HTML.Size(t)
	startTime := time.Now()

	var screenshot []byte
	err = chromedp.Run(chromeCtx,
		network.Enable(),
		chromedp.ActionFunc(countBytesAction),
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("file://"+filepath.ToSlash(page)),
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		// Let the echarts entry animation finish.
		chromedp.Sleep(time.Second),
		chromedp.FullScreenshot(&screenshot, 100),
	)
	if err != nil {
		return err
	}

	c.logger().Debug("Rasterised heat-map", "page", page, "downloaded", downloadedBytes.Load(), "took", time.Since(startTime))
	return os.WriteFile(filename+".png", screenshot, 0o644)
}

func (c ChromeHeatMap) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
