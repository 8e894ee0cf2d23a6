package chain

import "github.com/conchsh/conch/core/logger"

// Execute runs every link of the chain in order and returns the status
// of the last link executed. Chaining operators are carried as
// metadata only; every link runs regardless of the previous link's
// status.
func Execute(ch *Chain) int {
	if ch == nil {
		return InternalError
	}

	last := 0
	for _, cmd := range ch.Commands {
		last = executeCommand(cmd)
	}
	return last
}

// executeCommand runs one link's stages left to right. A failing stage
// aborts the remaining stages of the same pipeline; its status becomes
// the link's status. Descriptors of completed stages are closed
// immediately so they never leak into later stages.
func executeCommand(cmd *Command) int {
	if cmd == nil || len(cmd.Stages) == 0 {
		logger.Debugf("refusing to execute empty command")
		return InternalError
	}

	for _, stage := range cmd.Stages {
		if cmd.Background {
			stage.NoWait = true
		}
		if stage.Name == "" || stage.Dispatch.Run == nil {
			logger.Debugf("stage has no resolved dispatch")
			return InternalError
		}

		logger.Debugf("executing stage %s", stage.Name)
		if status := stage.Dispatch.Run(stage); status != 0 {
			return status
		}

		stage.CloseDescriptors()
	}

	return 0
}
