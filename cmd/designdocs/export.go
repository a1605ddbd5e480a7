package main

import (
	"context"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	clientdist "github.com/vango-dev/designdocs/client/dist"
	"github.com/vango-dev/designdocs/internal/config"
	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/publish"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the site to static HTML",
		Long: `Render every page to <out>/<path>/index.html and copy the client
assets to <out>/static/.

Exported pages are written fully revealed, so they read correctly with
or without JavaScript.

Examples:
  designdocs export
  designdocs export --out=public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Publish.Output = out
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := cfg.Logger(cmd.ErrOrStderr())

			res, err := runExport(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Exported %d pages (%d files) to %s", len(res.Pages), len(res.Files), cfg.Publish.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default from config)")
	return cmd
}

func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*publish.Result, error) {
	site, err := newSite(cfg, logger)
	if err != nil {
		return nil, err
	}
	exporter := &publish.Exporter{
		Site:   site,
		Assets: clientdist.FS,
		Logger: logger,
	}
	return exporter.Export(ctx, cfg.Publish.Output)
}

func publishCmd(opts *rootOptions) *cobra.Command {
	var (
		out         string
		bucket      string
		prefix      string
		region      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export the site and upload it to S3",
		Long: `Export the site and upload the result to an S3 bucket.

Credentials come from the standard AWS chain: environment variables,
shared config files, or an instance role.

Examples:
  designdocs publish --bucket=docs.example.com
  designdocs publish --bucket=my-bucket --prefix=design/ --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if out != "" {
				cfg.Publish.Output = out
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if prefix != "" {
				cfg.Publish.Prefix = prefix
			}
			if region != "" {
				cfg.Publish.Region = region
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Publish.Bucket == "" {
				return errors.New("E302")
			}
			logger := cfg.Logger(cmd.ErrOrStderr())
			ctx := cmd.Context()

			res, err := runExport(ctx, cfg, logger)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Exported %d pages", len(res.Pages))

			client, err := newS3Client(ctx, cfg.Publish.Region)
			if err != nil {
				return err
			}
			uploader := &publish.S3Uploader{
				Client:      client,
				Bucket:      cfg.Publish.Bucket,
				Prefix:      cfg.Publish.Prefix,
				Concurrency: concurrency,
				Logger:      logger,
			}
			up, err := uploader.Upload(ctx, cfg.Publish.Output)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Uploaded %d objects (%d bytes) to s3://%s/%s",
				len(up.Keys), up.Bytes, cfg.Publish.Bucket, cfg.Publish.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Export directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from the AWS config chain)")
	cmd.Flags().IntVar(&concurrency, "concurrency", publish.DefaultConcurrency, "Parallel uploads")
	return cmd
}

func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("E301").WithDetail("loading AWS configuration").Wrap(err)
	}
	return s3.NewFromConfig(awsCfg), nil
}
