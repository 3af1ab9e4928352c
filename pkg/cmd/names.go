package cmd

const (
	RootCmdName  = "autoprix"
	RootCmdShort = "Used car price estimation service"
	RootCmdLong  = `autoprix estimates the price of a used car with three pre-trained
regression models (linear, lasso and gradient boosted trees) and
serves the estimates behind a small HTTP API.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Start the prediction HTTP server"
	ServeCmdLong  = "Load the catalog and the trained models, then serve predictions over HTTP."

	PredictCmdName  = "predict"
	PredictCmdShort = "Estimate the price of one car from the command line"
	PredictCmdLong  = "Load the trained models and print the prediction response for the car described by the flags."
)
