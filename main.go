package main

import "github.com/killallgit/transcribe-relay/cmd"

// @title           Transcribe Relay API
// @version         1.0.0
// @description     Relays audio uploads to AssemblyAI, returns provider status verbatim and records finished transcripts
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/transcribe-relay
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
