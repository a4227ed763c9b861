package news

import "go.uber.org/fx"

// Module provides the news repository to Fx.
var Module = fx.Provide(NewRepository)
