// Package seed imports products from CSV files at startup.
//
// A source is a local path, an http(s) URL or an s3://bucket/key object.
// Files may be gzip compressed; compression is detected from the content.
// The CSV header must name the columns name, description, quantity, price
// and category.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/products-api/internal/models"
	"github.com/Lixing-Zhang/products-api/internal/repository"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"
)

// Row is one product line of a seed file
type Row struct {
	Name        string `csv:"name"`
	Description string `csv:"description"`
	Quantity    int    `csv:"quantity"`
	Price       int    `csv:"price"`
	Category    string `csv:"category"`
}

func (r Row) request() models.CreateProductRequest {
	return models.CreateProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Category:    r.Category,
	}
}

// ObjectGetter is the part of the S3 API the loader uses; *s3.S3 satisfies it.
type ObjectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// Creator stores one product. *service.ProductService satisfies it.
type Creator interface {
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.Product, repository.WriteAck, error)
}

// Loader fetches and parses seed files
type Loader struct {
	logger     *slog.Logger
	httpClient *http.Client
	region     string

	mu sync.Mutex // guards s3
	s3 ObjectGetter
}

type Option func(*Loader)

func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.httpClient = client }
}

func WithS3Client(client ObjectGetter) Option {
	return func(l *Loader) { l.s3 = client }
}

// NewLoader creates a loader. The S3 client is created on first use in region
// unless one is given with WithS3Client.
func NewLoader(logger *slog.Logger, region string, opts ...Option) *Loader {
	l := &Loader{
		logger: logger,
		region: region,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Seed loads every source and creates one product per row, in source order.
// It returns the number of products created before the first failure.
func (l *Loader) Seed(ctx context.Context, creator Creator, sources []string) (int, error) {
	rows, err := l.LoadFromSources(ctx, sources)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, row := range rows {
		if _, _, err := creator.CreateProduct(ctx, row.request()); err != nil {
			return created, fmt.Errorf("failed to create seed product %q: %w", row.Name, err)
		}
		created++
	}

	l.logger.InfoContext(ctx, "seed products created", "sources", len(sources), "products", created)
	return created, nil
}

// LoadFromSources fetches all sources concurrently and returns their rows
// in source order. Any failing source fails the whole load.
func (l *Loader) LoadFromSources(ctx context.Context, sources []string) ([]Row, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no seed sources provided")
	}

	results := make([][]Row, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			rows, err := l.loadSource(gctx, src)
			if err != nil {
				return fmt.Errorf("failed to load seed source %d (%s): %w", i+1, src, err)
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []Row
	for _, r := range results {
		rows = append(rows, r...)
	}
	return rows, nil
}

func (l *Loader) loadSource(ctx context.Context, src string) ([]Row, error) {
	body, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	rows, err := parseRows(body)
	if err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "seed source loaded", "source", src, "rows", len(rows))
	return rows, nil
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(src, "s3://"):
		return l.openS3(ctx, src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.openURL(ctx, src)
	default:
		return os.Open(src)
	}
}

func (l *Loader) openURL(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (l *Loader) openS3(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 location: %w", err)
	}

	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid s3 location %q: bucket and key are required", src)
	}

	client, err := l.s3Client()
	if err != nil {
		return nil, err
	}

	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	return out.Body, nil
}

func (l *Loader) s3Client() (ObjectGetter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.s3 != nil {
		return l.s3, nil
	}

	sess, err := session.NewSession(&aws.Config{Region: aws.String(l.region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	l.s3 = s3.New(sess)
	return l.s3, nil
}

// parseRows decodes a possibly gzipped CSV stream and validates every row
func parseRows(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)

	var in io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		in = gz
	}

	var rows []Row
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	var invalid error
	for i, row := range rows {
		if err := validateRow(row); err != nil {
			// line 1 is the header
			invalid = errors.Join(invalid, fmt.Errorf("line %d: %w", i+2, err))
		}
	}
	if invalid != nil {
		return nil, invalid
	}

	return rows, nil
}

func validateRow(r Row) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}
