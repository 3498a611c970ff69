//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

func TestSmoke_Postgres(t *testing.T) {
	repoRoot := repoRootPath(t)
	dsn := startPostgres(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	env := append(os.Environ(),
		"APP_ENV=prod",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"DB_DRIVER=pgx",
		"DB_DSN="+dsn,
		"DB_MAX_OPEN_CONNS=4",
		"DB_MAX_IDLE_CONNS=2",
	)
	noEnvFile := "--env-file=" + filepath.Join(t.TempDir(), "none.env")

	migrate := exec.Command(bin, "migrate", noEnvFile)
	migrate.Env = env
	if out, err := migrate.CombinedOutput(); err != nil {
		t.Fatalf("migrate failed: %v\n%s", err, out)
	}

	cmd := exec.Command(bin, "serve", noEnvFile)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 2 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 10*time.Second)

	t.Run("healthz", func(t *testing.T) {
		var body map[string]string
		status := doJSON(t, client, http.MethodGet, base+"/healthz", "", &body)
		if status != http.StatusOK {
			t.Fatalf("status=%d want=%d", status, http.StatusOK)
		}
		if body["status"] != "ok" {
			t.Fatalf("body.status=%q want=%q", body["status"], "ok")
		}
	})

	t.Run("create and query outside reading", func(t *testing.T) {
		var created map[string]any
		status := doJSON(t, client, http.MethodPost, base+"/air_quality/outside",
			`{"date_time":"2025-03-11T19:55:00","aqi":42,"temp_c":18}`, &created)
		if status != http.StatusOK {
			t.Fatalf("create status=%d want=%d (%v)", status, http.StatusOK, created)
		}
		if created["date_time"] != "2025-03-11T19:55:00Z" {
			t.Fatalf("date_time=%v", created["date_time"])
		}

		status = doJSON(t, client, http.MethodPost, base+"/air_quality/outside",
			`{"date_time":"2025-03-11T19:55:00Z","aqi":1}`, nil)
		if status != http.StatusBadRequest {
			t.Fatalf("duplicate status=%d want=%d", status, http.StatusBadRequest)
		}

		queries := []string{
			"/air_quality/outside",
			"/air_quality/outside/?start_date=2025-03-11T19:00:00&end_date=2025-03-11T20:00:00",
			"/air_quality/outside/periods?start_date=2025-03-11&end_date=2025-03-11&start_hour=19:00&end_hour=20:00",
			"/air_quality/outside/periods/exact_hour?start_date=2025-03-11&end_date=2025-03-11&exact_hour=19:55",
		}
		for _, q := range queries {
			var list []map[string]any
			status := doJSON(t, client, http.MethodGet, base+q, "", &list)
			if status != http.StatusOK {
				t.Fatalf("GET %s status=%d", q, status)
			}
			if len(list) != 1 || list[0]["aqi"] != float64(42) {
				t.Fatalf("GET %s = %v; want the aqi=42 reading", q, list)
			}
		}

		status = doJSON(t, client, http.MethodGet,
			base+"/air_quality/outside/periods?start_date=2025-03-11&end_date=2025-03-11&start_hour=25:00&end_hour=26:00", "", nil)
		if status != http.StatusBadRequest {
			t.Fatalf("out of range hour status=%d want=%d", status, http.StatusBadRequest)
		}
	})

	t.Run("replace and delete inside reading", func(t *testing.T) {
		status := doJSON(t, client, http.MethodPost, base+"/air_quality/inside",
			`{"date_time":"2025-01-02T08:00:00Z","co2_ppm":612.5}`, nil)
		if status != http.StatusOK {
			t.Fatalf("create status=%d", status)
		}

		var replaced map[string]any
		status = doJSON(t, client, http.MethodPut, base+"/air_quality/inside/2025-01-02T08:00:00",
			`{"date_time":"2025-01-02T08:05:00Z","co2_ppm":700}`, &replaced)
		if status != http.StatusOK {
			t.Fatalf("replace status=%d (%v)", status, replaced)
		}
		if replaced["date_time"] != "2025-01-02T08:05:00Z" || replaced["co2_ppm"] != float64(700) {
			t.Fatalf("replaced=%v", replaced)
		}

		var msg map[string]string
		status = doJSON(t, client, http.MethodDelete, base+"/air_quality/inside/2025-01-02T08:05:00", "", &msg)
		if status != http.StatusOK || msg["message"] == "" {
			t.Fatalf("delete status=%d body=%v", status, msg)
		}

		status = doJSON(t, client, http.MethodDelete, base+"/air_quality/inside/2025-01-02T08:05:00", "", nil)
		if status != http.StatusNotFound {
			t.Fatalf("second delete status=%d want=%d", status, http.StatusNotFound)
		}
	})

	stopServer(t, cmd)
}

// startPostgres runs a throwaway PostgreSQL and returns its connection URL.
func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "aire",
			"POSTGRES_PASSWORD": "aire",
			"POSTGRES_DB":       "aire",
		},
		HostConfigModifier: func(hc *container.HostConfig) {
			hc.Tmpfs = map[string]string{"/var/lib/postgresql/data": "rw"}
		},
		// The server logs readiness twice: once for the init run, once for real.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return fmt.Sprintf("postgres://aire:aire@%s/aire?sslmode=disable", net.JoinHostPort(host, port.Port()))
}

// doJSON sends body (if any) and decodes the response into out (if non-nil).
func doJSON(t *testing.T, client *http.Client, method, url, body string, out any) int {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode json: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	tmp := t.TempDir()
	out := filepath.Join(tmp, "aireapi")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
