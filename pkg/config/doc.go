/*
Package config manages tool configuration for filemill.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Loads tool settings from YAML, HCL, or JSON files
- Fills defaults so the CLI works with zero configuration
- Validates values before anything else consumes them

🔄 Flow:
1. Find or receive a config file path
2. Parse format-specific syntax (picked by file extension)
3. Validate and normalize values, filling defaults
4. Hand the validated config to the CLI and registry

📝 Design Philosophy:
Config carries tool-level settings only: where plugins live, how many
workers a run may use, how loud the logs are. Per-processor options
travel through processor descriptors instead, so this package stays
small and boring. All three formats decode strictly: an unknown key is
an error, not a silent no-op.

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, flags.configPath)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(cfg.Level())
*/
package config
