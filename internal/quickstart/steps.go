package quickstart

// Stage — экран загрузки, который показывает UI: 1 — форма, 2 — создание
// учётной записи, 3 — создание заявителя и запуск поиска.
type Stage int

const (
	StageForm Stage = iota + 1
	StageAccount
	StageApplicant
)

// Policy определяет реакцию на сбой шага.
type Policy int

const (
	// Fatal останавливает сценарий и возвращает UI на форму.
	Fatal Policy = iota
	// BestEffort записывает предупреждение и продолжает сценарий.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best_effort"
	}
	return "fatal"
}

// Step — шаг сценария.
type Step string

const (
	StepValidate         Step = "validate"
	StepGeneratePassword Step = "generate-password"
	StepAuthenticateAIS  Step = "authenticate-ais"
	StepCreateUser       Step = "create-user"
	StepResolveUserID    Step = "resolve-user-id"
	StepCreateApplicant  Step = "create-applicant"
	StepLogin            Step = "login"
	StepPersistSession   Step = "persist-session"
	StepStartSearch      Step = "start-search"
	StepRedirect         Step = "redirect"
)

type stepFunc func(f *Flow, r *run) error

type stepDef struct {
	step   Step
	stage  Stage
	policy Policy
	// message показывается пользователю при сбое шага.
	message string
	fn      stepFunc
}

// steps выполняются строго по порядку.
var steps = []stepDef{
	{StepValidate, StageForm, Fatal, "please fix the highlighted fields", (*Flow).validate},
	{StepGeneratePassword, StageAccount, Fatal, "could not prepare your account, please try again", (*Flow).generatePassword},
	{StepAuthenticateAIS, StageAccount, BestEffort, "could not sign in to the appointment system", (*Flow).authenticateAIS},
	{StepCreateUser, StageAccount, Fatal, "could not create your account", (*Flow).createUser},
	{StepResolveUserID, StageAccount, Fatal, "your account was created but could not be loaded, please sign in", (*Flow).resolveUserID},
	{StepCreateApplicant, StageApplicant, Fatal, "could not create the applicant", (*Flow).createApplicant},
	{StepLogin, StageApplicant, BestEffort, "automatic sign in failed, please sign in manually", (*Flow).login},
	{StepPersistSession, StageApplicant, BestEffort, "could not save your session, please sign in manually", (*Flow).persistSession},
	{StepStartSearch, StageApplicant, BestEffort, "the search could not be started automatically", (*Flow).startSearch},
	{StepRedirect, StageApplicant, Fatal, "could not open the applicant", (*Flow).redirect},
}

// PolicyOf возвращает политику сбоя шага.
func PolicyOf(step Step) (Policy, bool) {
	for _, d := range steps {
		if d.step == step {
			return d.policy, true
		}
	}
	return Fatal, false
}
