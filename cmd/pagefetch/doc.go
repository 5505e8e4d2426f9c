/*
Command pagefetch downloads a list of web pages concurrently.

It reads one URL per line from INPUT_FILE (default urls.txt), skips lines that
are not http(s) URLs, and stores the body of the Nth accepted URL as
page<N>.html in OUTPUT_DIR, or as an object in S3_BUCKET when
OUTPUT_PROVIDER=s3.

Downloads run on a worker pool sized from the batch and the CPU count. Each
page gets up to RETRY_MAX_ATTEMPTS attempts with a linear backoff. A transfer
is abandoned after HTTP_TIMEOUT, or earlier when fewer than
STALL_MIN_BYTES_PER_SEC bytes per second arrive over STALL_WINDOW.

Progress, retries and failures are written to stdout and appended to LOG_FILE
(default errors.log):

	2026-01-02T15:04:05Z INF Downloaded 3/10 (30.00%): https://example.com/ component=executor ...
	2026-01-02T15:04:06Z INF Retrying https://slow.example.com (1/3): ... component=executor ...
	2026-01-02T15:04:07Z ERR Download failed for https://slow.example.com after 3 attempts ...

The exit status is 0 once the batch has run, whatever the per-page results,
and 1 when configuration is invalid, the log file cannot be opened, storage
cannot be initialized, or no valid URL is found.

Configuration is read from the environment, layered over .env,
.env.<ENVIRONMENT> and .env.local files. Setting METRICS_ADDR serves
Prometheus metrics at /metrics while the batch runs.
*/
package main
