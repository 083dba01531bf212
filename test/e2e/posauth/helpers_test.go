//go:build e2e

package posauth_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/authsdk"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup, token minting and assertions shared by the POS auth
 * end-to-end tests.
 */

const (
	testImageName = "creditpos-posauth-test:latest"

	apiKey        = "e2e-api-key"
	apiSecret     = "shpss_e2e_secret"
	sessionSecret = "e2e-session-secret"
	testShop      = "acme.myshopify.com"
	otherShop     = "other.myshopify.com"
	posVersion    = "2025.07.0"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building POS Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up POS Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/posauth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// posauthContainer is a running service plus the handle needed to run CLI
// commands inside it.
type posauthContainer struct {
	BaseURL   string
	container testcontainers.Container
}

// setupPOSAuthContainer starts the service with relaxed rate limits and
// returns it with a cleanup func.
func setupPOSAuthContainer(t *testing.T, extraEnv map[string]string) (*posauthContainer, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ENV":                           "test",
		"LOG_LEVEL":                     "info",
		"LOG_FORMAT":                    "json",
		"POSAUTH_DATABASE_FILE":         "/posauth.db",
		"SHOPIFY_API_KEY":               apiKey,
		"SHOPIFY_API_SECRET":            apiSecret,
		"POSAUTH_SESSION_SECRET":        sessionSecret,
		"POSAUTH_SESSION_COOKIE_SECURE": "false",
		// Tests make many rapid requests from one address
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	pc := &posauthContainer{
		BaseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
		container: container,
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pc, cleanup
}

// runCLI runs the posauth binary inside the container and returns its output.
func (c *posauthContainer) runCLI(t *testing.T, args ...string) string {
	t.Helper()

	code, reader, err := c.container.Exec(t.Context(), append([]string{"/posauth"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, 0, code, "posauth %v: %s", args, out)
	return string(out)
}

// installShop registers shop through the CLI so credit notes can be issued.
func (c *posauthContainer) installShop(t *testing.T, shop string) {
	t.Helper()
	c.runCLI(t, "shop", "install", shop, "--access-token", "shpat_e2e_"+shop, "--scopes", "read_customers,write_gift_cards")
}

// mintSessionToken signs a session token the way the POS host would.
func mintSessionToken(t *testing.T, shop string, ttl time.Duration) string {
	t.Helper()
	claims := jwtx.NewSessionClaims(shop, apiKey, "42", "sid-e2e", ttl, time.Now())
	token, err := jwtx.NewSignerHS256([]byte(apiSecret)).Sign(claims)
	require.NoError(t, err)
	return token
}

// staticTokenSource always hands out the same token.
func staticTokenSource(token string) authsdk.TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// posHeaders are the headers a POS extension sends with every call.
func posHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                      "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) Shopify POS/" + posVersion,
		"X-Shopify-POS-Extension-Version": posVersion,
	}
}

// newClientWithJar returns an SDK client that keeps cookies between calls.
func newClientWithJar(t *testing.T, baseURL string) *authsdk.SDKClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := authsdk.NewSDKClient(baseURL)
	client.HTTPClient = &http.Client{Jar: jar, Timeout: 10 * time.Second}
	return client
}

func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// requireAPIError asserts err is an APIError with the given HTTP status.
func requireAPIError(t *testing.T, err error, status int) *authsdk.APIError {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "error: %v", err)
	return apiErr
}
