// Package app wires the equity pipeline together and runs it once.
//
// # Pipeline
//
// A run executes these stages in order, each in its own span:
//
//	1. Resolve the input path from the data configuration
//	2. Load the equity table
//	3. Compute the eligible factors and ask the Selector for a selection
//	4. Validate the selection
//	5. Clean the table down to Returns and the factor
//	6. Bin the factor and aggregate Returns per bin
//	7. Reduce the per-bin means to the weighted average
//
// The per-bin table and the result line are written to the pipeline's
// output. Logs never go there.
//
// # Usage
//
//	p, err := app.NewPipeline(cfg, app.Dependencies{Selector: sel, Out: os.Stdout})
//	if err != nil {
//		return err
//	}
//	res, err := p.Run(ctx)
//
// # Error Handling
//
// Every failure is returned to the caller as an *errors.AppError carrying
// its kind. The package never calls os.Exit and produces no partial result.
package app
