package aiController

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pathstream/config"
	"pathstream/database"
	"pathstream/middleware"
	"pathstream/models"
	courseModels "pathstream/models/course"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"
)

// maxPromptCourses caps how many catalog entries are embedded in the model
// prompt. Candidates are ranked by keyword overlap with the user's prompt
// so the most relevant ones survive the cap.
const maxPromptCourses = 40

// cacheTTL is how long a (user, prompt) recommendation is reused before the
// model is asked again.
const cacheTTL = 5 * time.Minute

// client is built once at startup and reused for every request. The
// recommendation endpoint stays up but answers with a configuration error
// when no API key is set.
var client *openai.Client

// InitClient builds the shared model client from configuration
func InitClient() {
	if config.AppConfig.OpenAIKey == "" {
		client = nil
		return
	}
	cfg := openai.DefaultConfig(config.AppConfig.OpenAIKey)
	if config.AppConfig.OpenAIBaseURL != "" {
		cfg.BaseURL = config.AppConfig.OpenAIBaseURL
	}
	client = openai.NewClientWithConfig(cfg)
}

// modelReply is the JSON object the model is instructed to return
type modelReply struct {
	Message              string   `json:"message"`
	RecommendedCourseIDs []string `json:"recommendedCourseIds"`
}

type cachedRecommendation struct {
	message   string
	courses   []courseModels.Course
	expiresAt time.Time
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]cachedRecommendation)
)

func cacheKey(userID uint, prompt string) string {
	return fmt.Sprintf("%d|%s", userID, strings.ToLower(strings.TrimSpace(prompt)))
}

func cacheGet(key string) (cachedRecommendation, bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	entry, ok := cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(cache, key)
		return cachedRecommendation{}, false
	}
	return entry, true
}

func cachePut(key string, message string, courses []courseModels.Course) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache[key] = cachedRecommendation{message: message, courses: courses, expiresAt: time.Now().Add(cacheTTL)}
}

// promptTokens splits a prompt into lowercase keyword tokens
func promptTokens(prompt string) []string {
	fields := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 { // skip filler words like "a", "to", "it"
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// rankCourses orders courses by keyword overlap between the prompt and the
// course's title, description, category and level, keeping at most max
// entries. With no overlap anywhere the natural catalog order is kept.
func rankCourses(prompt string, courses []courseModels.Course, max int) []courseModels.Course {
	tokens := promptTokens(prompt)

	type scored struct {
		course courseModels.Course
		score  int
	}

	ranked := make([]scored, 0, len(courses))
	for _, course := range courses {
		haystack := strings.ToLower(course.Title + " " + course.Description + " " + course.Category + " " + course.Level)
		score := 0
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				score++
			}
		}
		ranked = append(ranked, scored{course: course, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > max {
		ranked = ranked[:max]
	}

	result := make([]courseModels.Course, 0, len(ranked))
	for _, s := range ranked {
		result = append(result, s.course)
	}
	return result
}

// buildSystemMessage embeds the candidate catalog and the strict output
// format the model must follow
func buildSystemMessage(courses []courseModels.Course) string {
	var b strings.Builder

	b.WriteString("You are a helpful academic counselor for an online learning platform called PathStream.\n")
	b.WriteString("Your goal is to recommend courses to students based on their interests and goals.\n\n")
	b.WriteString("Here is the list of available courses:\n")
	for _, c := range courses {
		fmt.Fprintf(&b, "- %s (ID: %d): %s. Category: %s, Level: %s, Price: %.2f\n",
			c.Title, c.ID, c.Description, c.Category, c.Level, c.Price)
	}
	b.WriteString("\nWhen a user asks for recommendations, analyze their request and suggest the most relevant courses from the list above.\n")
	b.WriteString("Return your response in the following JSON format ONLY, do not add any markdown formatting or extra text outside the JSON:\n")
	b.WriteString(`{"message": "A friendly personalized message explaining why these courses are a good fit.", "recommendedCourseIds": ["ID1", "ID2"]}`)
	b.WriteString("\nIf no courses match relevantly, suggest general advice but still try to return the closest matches if possible, or an empty list for IDs.\n")

	return b.String()
}

// cleanModelReply strips markdown code fences some models wrap around JSON
func cleanModelReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimPrefix(reply, "```")
		reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")
	}
	return strings.TrimSpace(reply)
}

// GetCourseRecommendations asks the model to pick relevant courses for the
// user's free-text prompt and relays its message plus the matched courses
func GetCourseRecommendations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	prompt, ok := c.Locals("validatedPrompt").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prompt is required", nil)
	}

	if client == nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Server configuration error: AI API key missing.", nil)
	}

	key := cacheKey(userID, prompt)
	if entry, ok := cacheGet(key); ok {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations generated successfully!", fiber.Map{
			"message":         entry.message,
			"recommendations": entry.courses,
		})
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	candidates := rankCourses(prompt, courses, maxPromptCourses)

	resp, err := client.CreateChatCompletion(c.Context(), openai.ChatCompletionRequest{
		Model: config.AppConfig.OpenAIModel,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemMessage(candidates)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Printf("Error calling model API: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate recommendations. Please check your API key or try again later.", nil)
	}
	if len(resp.Choices) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate recommendations. Please check your API key or try again later.", nil)
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(cleanModelReply(resp.Choices[0].Message.Content)), &reply); err != nil {
		log.Printf("Error parsing model reply: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate recommendations. Please check your API key or try again later.", nil)
	}

	// Cross-reference returned ids against the candidate catalog; unknown
	// ids are silently dropped.
	byID := make(map[uint]courseModels.Course, len(candidates))
	for _, course := range candidates {
		byID[course.ID] = course
	}

	recommendations := []courseModels.Course{}
	seen := make(map[uint]bool)
	for _, idStr := range reply.RecommendedCourseIDs {
		id, err := strconv.ParseUint(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			continue
		}
		course, ok := byID[uint(id)]
		if !ok || seen[uint(id)] {
			continue
		}
		seen[uint(id)] = true
		recommendations = append(recommendations, course)
	}

	cachePut(key, reply.Message, recommendations)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations generated successfully!", fiber.Map{
		"message":         reply.Message,
		"recommendations": recommendations,
	})
}
