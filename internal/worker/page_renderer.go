package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// A4 在 96dpi 下的像素尺寸。
const (
	a4Width  = 794
	a4Height = 1123
)

// PageCapturer 把一份 HTML 文档渲染成 JPEG 截图。
type PageCapturer interface {
	Capture(ctx context.Context, html string, quality int) ([]byte, error)
}

// ChromiumCapturer 使用无头 Chromium 截图，每次调用启动独立的浏览器进程。
type ChromiumCapturer struct {
	logger *slog.Logger
}

// NewChromiumCapturer 创建 ChromiumCapturer。
func NewChromiumCapturer(logger *slog.Logger) *ChromiumCapturer {
	return &ChromiumCapturer{logger: logger}
}

// Capture 实现 PageCapturer。
func (c *ChromiumCapturer) Capture(ctx context.Context, html string, quality int) ([]byte, error) {
	page, cleanup, err := renderDocument(ctx, c.logger, html)
	defer cleanup()
	if err != nil {
		return nil, err
	}
	return captureScreenshot(page, quality)
}

func renderDocument(ctx context.Context, logger *slog.Logger, html string) (_ *rod.Page, cleanup func(), err error) {
	cleanup = func() {}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer func() {
		if err != nil {
			launch.Cleanup()
		}
	}()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, cleanup, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Context(ctx).Timeout(90 * time.Second)
	if err := browser.Connect(); err != nil {
		return nil, cleanup, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, cleanup, fmt.Errorf("open page: %w", err)
	}
	cleanup = func() {
		_ = page.Close()
		_ = browser.Close()
		launch.Cleanup()
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             a4Width,
		Height:            a4Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, cleanup, fmt.Errorf("set viewport: %w", err)
	}

	logger.Info("Worker: Loading rendered resume document...")
	if err := page.SetDocumentContent(html); err != nil {
		return nil, cleanup, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, cleanup, fmt.Errorf("wait page load: %w", err)
	}

	// 等待 WebFont 就绪，避免回退字体度量导致排版差异
	if _, evalErr := page.Timeout(5 * time.Second).Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`); evalErr != nil {
		logger.Warn("Worker: document.fonts.ready wait failed, continue", slog.Any("error", evalErr))
	}

	return page, cleanup, nil
}

func captureScreenshot(page *rod.Page, quality int) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(quality),
		Clip: &proto.PageViewport{
			Width:  a4Width,
			Height: a4Height,
			Scale:  1,
		},
	}
	data, err := page.Screenshot(false, req)
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	return data, nil
}

func intPtr(value int) *int {
	return &value
}
