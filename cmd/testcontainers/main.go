package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/testutil"
	"github.com/joho/godotenv"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the catalog service and its collaborators (MariaDB, fake-gcs-server, Redis,
Authorizer) in testcontainers with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	started := make(chan *testutil.Stack, 1)
	go func() {
		stack, err := testutil.StartStack(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		started <- stack
	}()

	var stack *testutil.Stack
	select {
	case stack = <-started:
		log.Printf("Stack ready, press Ctrl+C to stop\n")
		sig := <-sigs
		log.Printf("Received signal: %v, terminating test containers...\n", sig)
	case sig := <-sigs:
		log.Printf("Received signal: %v before startup finished\n", sig)
		stack = <-started
	}
	stack.Terminate(nil)
}
