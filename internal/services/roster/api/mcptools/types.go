package mcptools

import (
	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallerInput identifies who triggers a tool.
type CallerInput struct {
	Grant        string   `json:"grant,omitempty" jsonschema:"signed caller grant, required when grant verification is configured"`
	ID           string   `json:"id,omitempty" jsonschema:"caller identity when grants are not configured"`
	Capabilities []string `json:"capabilities,omitempty" jsonschema:"caller capability names when grants are not configured"`
	Locale       string   `json:"locale,omitempty" jsonschema:"locale for rejection messages (default en-US)"`
}

// EventCreateInput represents the MCP tool input for event creation.
type EventCreateInput struct {
	Caller      CallerInput `json:"caller" jsonschema:"caller identity"`
	GuildID     string      `json:"guild_id,omitempty" jsonschema:"community the event belongs to"`
	Title       string      `json:"title" jsonschema:"event title"`
	Description string      `json:"description,omitempty" jsonschema:"event description"`
}

// EventSummary describes a persisted event.
type EventSummary struct {
	ID          string `json:"id"`
	GuildID     string `json:"guild_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	AreaID      string `json:"area_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// EventCreateResult represents the MCP tool output for event creation.
type EventCreateResult struct {
	Event  EventSummary `json:"event"`
	Roster domain.View  `json:"roster"`
}

// CommanderClaimInput represents the MCP tool input for claiming a faction
// command.
type CommanderClaimInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
	Faction string      `json:"faction" jsonschema:"faction (A, B, Allies, Axis)"`
}

// RosterResult carries the roster after a mutation.
type RosterResult struct {
	Roster domain.View `json:"roster"`
}

// CrewCreateInput represents the MCP tool input for forming a crew led by
// the caller.
type CrewCreateInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity, the crew commander"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
	Faction string      `json:"faction" jsonschema:"faction (A, B, Allies, Axis)"`
	Gunner  string      `json:"gunner,omitempty" jsonschema:"gunner identity (defaults to the commander)"`
	Driver  string      `json:"driver,omitempty" jsonschema:"driver identity (defaults to the commander)"`
	Name    string      `json:"name,omitempty" jsonschema:"crew name (defaults to <commander>'s Crew)"`
}

// CrewResult represents the MCP tool output for crew placement.
type CrewResult struct {
	Faction string      `json:"faction"`
	Index   int         `json:"index"`
	Roster  domain.View `json:"roster"`
}

// RecruitsJoinInput represents the MCP tool input for joining the recruit
// pool.
type RecruitsJoinInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
}

// CrewPositionEditInput represents the MCP tool input for editing a crew
// position.
type CrewPositionEditInput struct {
	Caller   CallerInput `json:"caller" jsonschema:"caller identity, the crew commander"`
	EventID  string      `json:"event_id" jsonschema:"event identifier"`
	Position string      `json:"position" jsonschema:"crew position (gunner, driver)"`
	Identity string      `json:"identity,omitempty" jsonschema:"new occupant; empty restores the commander"`
}

// CrewRecruitInput represents the MCP tool input for pulling a recruit into
// a crew.
type CrewRecruitInput struct {
	Caller   CallerInput `json:"caller" jsonschema:"caller identity, the crew commander"`
	EventID  string      `json:"event_id" jsonschema:"event identifier"`
	Recruit  string      `json:"recruit" jsonschema:"recruit identity"`
	Position string      `json:"position" jsonschema:"crew position (gunner, driver)"`
}

// CrewRenameInput represents the MCP tool input for renaming a crew.
type CrewRenameInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity, the crew commander"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
	Name    string      `json:"name,omitempty" jsonschema:"crew name (defaults to <commander>'s Crew)"`
}

// CrewJoinProfileInput represents the MCP tool input for joining with a
// saved crew profile.
type CrewJoinProfileInput struct {
	Caller    CallerInput `json:"caller" jsonschema:"caller identity, the profile commander"`
	EventID   string      `json:"event_id" jsonschema:"event identifier"`
	ProfileID string      `json:"profile_id" jsonschema:"crew profile identifier"`
	Faction   string      `json:"faction" jsonschema:"faction (A, B, Allies, Axis)"`
}

// LeaveInput represents the MCP tool input for leaving an event.
type LeaveInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
}

// LeaveResult represents the MCP tool output for leaving an event.
type LeaveResult struct {
	Removed   bool        `json:"removed"`
	Displaced []string    `json:"displaced"`
	Roster    domain.View `json:"roster"`
}

// EventEndInput represents the MCP tool input for finalizing an event.
type EventEndInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity, an admin"`
	EventID string      `json:"event_id" jsonschema:"event identifier"`
}

// ParticipantEntry is one entry of the final participant list.
type ParticipantEntry struct {
	Identity string `json:"identity"`
	Faction  string `json:"faction,omitempty"`
	Role     string `json:"role"`
	CrewName string `json:"crew_name,omitempty"`
}

// EventEndResult represents the MCP tool output for finalizing an event.
type EventEndResult struct {
	EventID               string             `json:"event_id"`
	Participants          []ParticipantEntry `json:"participants"`
	ParticipantCount      int                `json:"participant_count"`
	SignupsPersisted      int                `json:"signups_persisted"`
	SignupFailures        int                `json:"signup_failures"`
	StatusWriteFailed     bool               `json:"status_write_failed"`
	RolesRevoked          int                `json:"roles_revoked"`
	RoleRevokeFailures    int                `json:"role_revoke_failures"`
	ChannelsDeleted       int                `json:"channels_deleted"`
	ChannelDeleteFailures int                `json:"channel_delete_failures"`
	AreaDeleted           bool               `json:"area_deleted"`
	FactionRolesDeleted   bool               `json:"faction_roles_deleted"`
	SnapshotChecksum      string             `json:"snapshot_checksum,omitempty"`
}

// CrewProfileSaveInput represents the MCP tool input for saving a reusable
// crew led by the caller.
type CrewProfileSaveInput struct {
	Caller  CallerInput `json:"caller" jsonschema:"caller identity, the profile commander"`
	GuildID string      `json:"guild_id,omitempty" jsonschema:"community the profile belongs to"`
	Name    string      `json:"name" jsonschema:"crew name"`
	Gunner  string      `json:"gunner,omitempty" jsonschema:"gunner identity"`
	Driver  string      `json:"driver,omitempty" jsonschema:"driver identity"`
}

// CrewProfileSaveResult represents the MCP tool output for a saved profile.
type CrewProfileSaveResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CommanderID string `json:"commander_id"`
	GunnerID    string `json:"gunner_id,omitempty"`
	DriverID    string `json:"driver_id,omitempty"`
}

// EventListPayload is the body of the event list resource.
type EventListPayload struct {
	Events []EventSummary `json:"events"`
}

func EventCreateTool() *mcp.Tool {
	return &mcp.Tool{Name: "event_create", Description: "Creates an event, opens its roster and provisions its channels"}
}

func CommanderClaimTool() *mcp.Tool {
	return &mcp.Tool{Name: "commander_claim", Description: "Claims the command of a faction"}
}

func CrewCreateTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_create", Description: "Forms a crew commanded by the caller"}
}

func RecruitsJoinTool() *mcp.Tool {
	return &mcp.Tool{Name: "recruits_join", Description: "Joins the recruit pool"}
}

func CrewPositionEditTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_position_edit", Description: "Sets or clears the gunner or driver of the caller's crew"}
}

func CrewRecruitTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_recruit", Description: "Moves a recruit into the caller's crew"}
}

func CrewRenameTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_rename", Description: "Renames the caller's crew"}
}

func CrewJoinProfileTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_join_profile", Description: "Joins an event with a saved crew profile"}
}

func LeaveTool() *mcp.Tool {
	return &mcp.Tool{Name: "roster_leave", Description: "Removes the caller from the roster"}
}

func EventEndTool() *mcp.Tool {
	return &mcp.Tool{Name: "event_end", Description: "Finalizes an event and freezes its roster"}
}

func CrewProfileSaveTool() *mcp.Tool {
	return &mcp.Tool{Name: "crew_profile_save", Description: "Saves a reusable crew commanded by the caller"}
}

// EventListResource defines the readable list of open events.
func EventListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "event_list",
		Title:       "Events",
		Description: "Events with an open or frozen roster",
		MIMEType:    "application/json",
		URI:         "roster://events",
	}
}

// RosterResourceTemplate defines the readable roster of one event.
func RosterResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "roster",
		Title:       "Roster",
		Description: "Readable roster of an event. URI format: roster://events/{event_id}",
		MIMEType:    "application/json",
		URITemplate: "roster://events/{event_id}",
	}
}
