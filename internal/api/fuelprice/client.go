package fuelprice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrThrottled 距上次抓取太近，本次不发请求
	ErrThrottled = errors.New("fuel price fetch throttled")
	// ErrPriceNotFound 页面中未匹配到价格
	ErrPriceNotFound = errors.New("fuel price not found in page")
)

// 页面读取上限
const maxPageBytes = 2 << 20

// Client 加油站油价抓取客户端
// 依赖第三方页面结构，属于不稳定的外部协作方：只请求一次，失败即返回错误
type Client struct {
	urlTemplate string
	pattern     *regexp.Regexp
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewClient 创建抓取客户端
// urlTemplate 含一个 %s 占位符；pattern 的第一个捕获组为价格
func NewClient(urlTemplate, pattern string, interval time.Duration, logger *zap.Logger) (*Client, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile price pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("price pattern needs a capture group")
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Client{
		urlTemplate: urlTemplate,
		pattern:     re,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// FetchStationPrice 抓取加油站当前油价（每加仑）
func (c *Client) FetchStationPrice(ctx context.Context, stationID string) (float64, error) {
	if stationID == "" {
		return 0, fmt.Errorf("station id is empty")
	}
	if !c.limiter.Allow() {
		return 0, ErrThrottled
	}

	pageURL := fmt.Sprintf(c.urlTemplate, url.PathEscape(stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leasemeter/1.0)")
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	price, err := c.ParsePrice(body)
	if err != nil {
		c.logger.Warn("Fuel price scrape failed",
			zap.String("station_id", stationID),
			zap.Int("page_bytes", len(body)),
			zap.Error(err))
		return 0, err
	}

	c.logger.Debug("Scraped fuel price",
		zap.String("station_id", stationID),
		zap.Float64("price", price))

	return price, nil
}

// ParsePrice 从页面中提取第一个匹配的价格
func (c *Client) ParsePrice(page []byte) (float64, error) {
	m := c.pattern.FindSubmatch(page)
	if m == nil {
		return 0, ErrPriceNotFound
	}

	d, err := decimal.NewFromString(string(m[1]))
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", m[1], err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("non-positive price %s", d)
	}

	price, _ := d.Round(3).Float64()
	return price, nil
}
