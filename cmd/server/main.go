package main

// @title           GachaActu API
// @version         1.0
// @description     News, guides, tier lists and videos about gacha games, with an editorial back-office.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
