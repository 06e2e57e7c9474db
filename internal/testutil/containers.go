// This file starts the catalog's collaborators with testcontainers.
// It backs the database integration tests and the standalone cmd/testcontainers stack.
// Values come from the environment, usually loaded from a .env file, with defaults for local runs.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/data"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	serviceImage    = "srisai-catalog-test:latest"
	storageAlias    = "storage"
	storagePort     = "4443"
	cacheAlias      = "cache"
	authorizerAlias = "authorizer"
)

// Endpoint is a host-reachable address of a started container.
type Endpoint struct {
	Host string
	Port string
}

func (e Endpoint) String() string {
	return e.Host + ":" + e.Port
}

// Stack is the full set of containers behind an end-to-end run.
type Stack struct {
	Network          *testcontainers.DockerNetwork
	DBContainer      testcontainers.Container
	StorageContainer testcontainers.Container
	CacheContainer   testcontainers.Container
	AuthzContainer   testcontainers.Container
	ServiceContainer testcontainers.Container
	BuilderContainer testcontainers.Container

	DB      Endpoint
	Storage Endpoint
	Cache   Endpoint
	Authz   Endpoint
	Service Endpoint
}

// Terminate stops every started container, newest first.
func (s *Stack) Terminate(t *testing.T) {
	ctx := context.Background()
	for _, c := range []struct {
		name string
		ctr  testcontainers.Container
	}{
		{"catalog service", s.ServiceContainer},
		{"catalog builder", s.BuilderContainer},
		{"authorizer", s.AuthzContainer},
		{"cache", s.CacheContainer},
		{"storage", s.StorageContainer},
		{"database", s.DBContainer},
	} {
		if c.ctr == nil {
			continue
		}
		if err := c.ctr.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", c.name, err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// StartStack starts MariaDB, fake-gcs-server, Redis, Authorizer and the catalog service image.
// With t == nil failures exit the process, for use from cmd/testcontainers.
func StartStack(t *testing.T) (*Stack, error) {
	ctx := context.Background()
	stack := &Stack{}
	fail := func(err error, msg string) (*Stack, error) {
		stack.Terminate(t)
		exitWithError(t, err, msg)
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	nw, err := network.New(ctx)
	if err != nil {
		return fail(err, "Failed to create network")
	}
	stack.Network = nw

	if stack.DBContainer, stack.DB, err = StartMariaDB(ctx, t, nw); err != nil {
		return fail(err, "Failed to start database")
	}
	if err := InitMariaDB(stack.DB, true); err != nil {
		return fail(err, "Failed to initialize database")
	}
	if stack.StorageContainer, stack.Storage, err = StartStorage(ctx, nw, getEnv("MEDIA_BUCKET", "srisai-test")); err != nil {
		return fail(err, "Failed to start storage emulator")
	}
	logMessage(t, "STORAGE_EMULATOR_HOST=http://%s", stack.Storage)
	if stack.CacheContainer, stack.Cache, err = StartRedis(ctx, nw); err != nil {
		return fail(err, "Failed to start cache")
	}
	logMessage(t, "REDIS_ADDR=%s", stack.Cache)
	if stack.AuthzContainer, stack.Authz, err = startAuthorizer(ctx, t, nw); err != nil {
		return fail(err, "Failed to start Authorizer")
	}
	logMessage(t, "AUTHZ_URL=http://%s", stack.Authz)
	if err := startService(ctx, t, nw, stack); err != nil {
		return fail(err, "Failed to start catalog service")
	}
	logMessage(t, "BASE_URL=http://%s", stack.Service)

	logMessage(t, "Catalog testcontainers started successfully")
	return stack, nil
}

// StartMariaDB starts the database container, joined to nw when it is not nil.
func StartMariaDB(ctx context.Context, t *testing.T, nw *testcontainers.DockerNetwork) (testcontainers.Container, Endpoint, error) {
	port, err := nat.NewPort("tcp", getEnv("DB_PORT", "3306"))
	if err != nil {
		return nil, Endpoint{}, err
	}
	req := testcontainers.ContainerRequest{
		Image:        getEnv("DB_IMAGE", "mariadb:11.4"),
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MARIADB_ROOT_PASSWORD": getEnv("DB_ROOT_PASSWORD", "root-secret"),
			"MARIADB_DATABASE":      getEnv("DB_APP_DATABASE", "catalog"),
		},
		WaitingFor: wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second),
	}
	joinNetwork(&req, nw, getEnv("DB_HOST", "mariadb"))

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return ctr, Endpoint{}, err
	}
	ep, err := endpoint(ctx, ctr, port)
	logMessage(t, "DB=%s", ep)
	return ctr, ep, err
}

// InitMariaDB creates the application schema, the reader and writer users, and optionally the Authorizer database.
func InitMariaDB(ep Endpoint, withAuthorizer bool) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s)/?multiStatements=false", getEnv("DB_ROOT_PASSWORD", "root-secret"), ep))
	if err != nil {
		return fmt.Errorf("failed to connect to MariaDB for setup: %w", err)
	}
	defer db.Close()

	// Wait for connection to be really ready
	for i := 0; i < 30; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	statements := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", getEnv("DB_APP_DATABASE", "catalog")),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", getEnv("DB_USER", "catalog_reader"), getEnv("DB_PASSWORD", "reader-secret")),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", getEnv("DB_APP_USER", "catalog_writer"), getEnv("DB_APP_PASSWORD", "writer-secret")),
	}
	if withAuthorizer {
		authzDB := getEnv("AUTHZ_DATABASE", "authorizer")
		statements = append(statements,
			fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", authzDB),
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.authorizer_users (id CHAR(36) NOT NULL PRIMARY KEY)", authzDB),
		)
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, stmt)
		}
	}

	// the init scripts use the application database name literally
	script := strings.ReplaceAll(data.InitdbMariaDBTables, "`catalog`", "`"+getEnv("DB_APP_DATABASE", "catalog")+"`")
	if err := executeSQL(db, script); err != nil {
		return fmt.Errorf("failed to execute tables init sql: %w", err)
	}
	script = data.InitdbMariaDBPrivileges
	for placeholder, value := range map[string]string{
		"`catalog`":        "`" + getEnv("DB_APP_DATABASE", "catalog") + "`",
		"'catalog_reader'": "'" + getEnv("DB_USER", "catalog_reader") + "'",
		"'catalog_writer'": "'" + getEnv("DB_APP_USER", "catalog_writer") + "'",
	} {
		script = strings.ReplaceAll(script, placeholder, value)
	}
	if err := executeSQL(db, script); err != nil {
		return fmt.Errorf("failed to execute privileges init sql: %w", err)
	}
	return nil
}

// StartStorage starts fake-gcs-server with bucket already present.
func StartStorage(ctx context.Context, nw *testcontainers.DockerNetwork, bucket string) (testcontainers.Container, Endpoint, error) {
	port := nat.Port(storagePort + "/tcp")
	req := testcontainers.ContainerRequest{
		Image:        getEnv("STORAGE_IMAGE", "fsouza/fake-gcs-server:1.52"),
		ExposedPorts: []string{string(port)},
		Cmd:          []string{"-scheme", "http", "-port", storagePort, "-backend", "memory", "-public-host", storageAlias + ":" + storagePort},
		Files: []testcontainers.ContainerFile{{
			Reader:            strings.NewReader(""),
			ContainerFilePath: "/data/" + bucket + "/.keep",
			FileMode:          0o644,
		}},
		WaitingFor: wait.ForHTTP("/storage/v1/b").WithPort(port).WithStartupTimeout(60 * time.Second),
	}
	joinNetwork(&req, nw, storageAlias)

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return ctr, Endpoint{}, err
	}
	ep, err := endpoint(ctx, ctr, port)
	return ctr, ep, err
}

// StartRedis starts the page cache.
func StartRedis(ctx context.Context, nw *testcontainers.DockerNetwork) (testcontainers.Container, Endpoint, error) {
	port := nat.Port("6379/tcp")
	req := testcontainers.ContainerRequest{
		Image:        getEnv("REDIS_IMAGE", "redis:7-alpine"),
		ExposedPorts: []string{string(port)},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	joinNetwork(&req, nw, cacheAlias)

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return ctr, Endpoint{}, err
	}
	ep, err := endpoint(ctx, ctr, port)
	return ctr, ep, err
}

func startAuthorizer(ctx context.Context, t *testing.T, nw *testcontainers.DockerNetwork) (testcontainers.Container, Endpoint, error) {
	port, err := nat.NewPort("tcp", getEnv("AUTHZ_PORT", "8080"))
	if err != nil {
		return nil, Endpoint{}, err
	}
	logLevel := "info"
	if os.Getenv("DEBUG_CONTAINER") == "true" {
		logLevel = "debug"
	}
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s", getEnv("DB_ROOT_PASSWORD", "root-secret"),
		getEnv("DB_HOST", "mariadb"), getEnv("DB_PORT", "3306"), getEnv("AUTHZ_DATABASE", "authorizer"))

	req := testcontainers.ContainerRequest{
		Image:        getEnv("AUTHZ_IMAGE", "lakhansamani/authorizer:1.4.4"),
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"ENV":           "production",
			"CLIENT_ID":     getEnv("AUTHZ_CLIENT_ID", "catalog-test-client"),
			"PORT":          port.Port(),
			"DATABASE_TYPE": "mariadb",
			"DATABASE_NAME": getEnv("AUTHZ_DATABASE", "authorizer"),
			"DATABASE_URL":  dsn,
			"ADMIN_SECRET":  getEnv("AUTHZ_ADMIN_SECRET", "admin-secret"),
			"ROLES":         "admin,user",
			"DEFAULT_ROLES": "user",
			"LOG_LEVEL":     logLevel,
		},
		WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
	}
	joinNetwork(&req, nw, authorizerAlias)

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return ctr, Endpoint{}, err
	}
	ep, err := endpoint(ctx, ctr, port)
	return ctr, ep, err
}

// startService runs the catalog image, building it from the Dockerfile when it is not present locally.
func startService(ctx context.Context, t *testing.T, nw *testcontainers.DockerNetwork, stack *Stack) error {
	debugContainer := os.Getenv("DEBUG_CONTAINER")

	port, err := nat.NewPort("tcp", getEnv("PORT", "3000"))
	if err != nil {
		return err
	}
	exposed := []string{string(port)}
	if debugContainer == "true" {
		exposed = append(exposed, "2345/tcp")
	}

	hostConfigModifier := func(hostConfig *container.HostConfig) {
		if debugContainer == "true" {
			hostConfig.PortBindings = nat.PortMap{
				"2345/tcp": []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "2345"}},
			}
			hostConfig.CapAdd = []string{"SYS_PTRACE"}
			hostConfig.SecurityOpt = []string{"apparmor:unconfined"}
		}
	}

	var waitStrategy wait.Strategy = wait.ForHTTP("/metrics").WithPort(port).WithStartupTimeout(60 * time.Second)
	if debugContainer == "true" {
		waitStrategy = wait.ForLog("API server listening at: [::]:2345").WithStartupTimeout(5 * time.Minute)
	}

	req := testcontainers.ContainerRequest{
		ExposedPorts: exposed,
		Env: map[string]string{
			"DB_TYPE":               "mariadb",
			"DB_HOST":               getEnv("DB_HOST", "mariadb"),
			"DB_PORT":               getEnv("DB_PORT", "3306"),
			"DB_APP_DATABASE":       getEnv("DB_APP_DATABASE", "catalog"),
			"DB_APP_USER":           getEnv("DB_APP_USER", "catalog_writer"),
			"DB_APP_PASSWORD":       getEnv("DB_APP_PASSWORD", "writer-secret"),
			"DB_USER":               getEnv("DB_USER", "catalog_reader"),
			"DB_PASSWORD":           getEnv("DB_PASSWORD", "reader-secret"),
			"AUTHZ_URL":             fmt.Sprintf("http://%s:%s", authorizerAlias, getEnv("AUTHZ_PORT", "8080")),
			"AUTHZ_CLIENT_ID":       getEnv("AUTHZ_CLIENT_ID", "catalog-test-client"),
			"MEDIA_BUCKET":          getEnv("MEDIA_BUCKET", "srisai-test"),
			"STORAGE_EMULATOR_HOST": fmt.Sprintf("http://%s:%s", storageAlias, storagePort),
			"MEDIA_PUBLIC_BASE_URL": fmt.Sprintf("http://%s/storage/v1/b/%s/o", stack.Storage, getEnv("MEDIA_BUCKET", "srisai-test")),
			"REDIS_ADDR":            cacheAlias + ":6379",
			"LOG_MODE":              getEnv("LOG_MODE", "production"),
			"PORT":                  port.Port(),
		},
		HostConfigModifier: hostConfigModifier,
		WaitingFor:         waitStrategy,
		Networks:           []string{nw.Name},
	}

	if debugContainer == "true" {
		req.Entrypoint = []string{
			"/usr/local/bin/dlv", "--listen=:2345", "--headless=true", "--api-version=2",
			"--accept-multiclient", "exec", "./catalog",
		}
	}

	exists, err := imageExists(ctx, serviceImage)
	if err != nil {
		return fmt.Errorf("failed to check if image exists: %w", err)
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", serviceImage)
		req.Image = serviceImage
	} else {
		reaperSessionID := uuid.New().String()
		buildArgs := map[string]*string{"RESOURCE_REAPER_SESSION_ID": &reaperSessionID}
		if debugContainer == "true" {
			buildArgs["DEBUG"] = &debugContainer
		}
		buildContext := getEnv("TESTCONTAINERS_BUILD_CONTEXT", "../..")

		logMessage(t, "Image %s does not exist, building...", serviceImage)
		builder, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    buildContext,
					Dockerfile: "Dockerfile",
					Repo:       "srisai-catalog-test-builder",
					Tag:        "latest",
					BuildArgs:  buildArgs,
					BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
						opts.Target = "builder"
					},
					PrintBuildLog: true,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to build builder stage: %w", err)
		}
		stack.BuilderContainer = builder

		repo, tag, _ := strings.Cut(serviceImage, ":")
		req.FromDockerfile = testcontainers.FromDockerfile{
			Context:    buildContext,
			Dockerfile: "Dockerfile",
			Repo:       repo,
			Tag:        tag,
			KeepImage:  true,
			BuildArgs:  buildArgs,
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
			PrintBuildLog: true,
		}
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return err
	}
	stack.ServiceContainer = ctr
	stack.Service, err = endpoint(ctx, ctr, port)
	return err
}

func joinNetwork(req *testcontainers.ContainerRequest, nw *testcontainers.DockerNetwork, alias string) {
	if nw == nil {
		return
	}
	req.Networks = []string{nw.Name}
	req.NetworkAliases = map[string][]string{nw.Name: {alias}}
}

func endpoint(ctx context.Context, ctr testcontainers.Container, port nat.Port) (Endpoint, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		return Endpoint{}, err
	}
	mapped, err := ctr.MappedPort(ctx, port)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Host: host, Port: mapped.Port()}, nil
}

// executeSQL runs each ;-terminated statement of script with -- comments stripped.
func executeSQL(db *sql.DB, script string) error {
	lines := strings.Split(script, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		cleaned = append(cleaned, excludeComment(l))
	}

	queries := strings.Split(strings.Join(cleaned, "\n"), ";")
	for _, q := range queries[:len(queries)-1] {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// excludeComment drops a trailing -- comment that is not inside a quoted string.
func excludeComment(line string) string {
	var out strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
		case ch == '-' && i+1 < len(line) && line[i+1] == '-':
			return out.String()
		}
		out.WriteByte(ch)
	}
	return out.String()
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
