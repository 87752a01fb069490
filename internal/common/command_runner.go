package common

import (
	"context"
	"fmt"
	"io"

	"atsopt/internal/errors"
)

// CreateInputFunc builds the operation input from the documents named on the command line.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc runs the command's work.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunFileCommand reads the documents in args, runs the operation and writes
// its formatted output to cfg.OutputFile or out.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	out io.Writer,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(cmdConfig.MaxFileSize, logger)
	outputHandler := NewOutputHandler(logger).WithWriter(out)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
