package logging

// Per-category convenience helpers, mirroring the category constants.
// Pipeline code calls these instead of threading logger handles around.

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Infof(format, args...)
}

// API logs to the api category.
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Infof(format, args...)
}

// APIDebug logs debug to the api category.
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debugf(format, args...)
}

// APIWarn logs warning to the api category.
func APIWarn(format string, args ...interface{}) {
	Get(CategoryAPI).Warnf(format, args...)
}

// Trait logs to the trait category.
func Trait(format string, args ...interface{}) {
	Get(CategoryTrait).Infof(format, args...)
}

// TraitDebug logs debug to the trait category.
func TraitDebug(format string, args ...interface{}) {
	Get(CategoryTrait).Debugf(format, args...)
}

// Planner logs to the planner category.
func Planner(format string, args ...interface{}) {
	Get(CategoryPlanner).Infof(format, args...)
}

// PlannerDebug logs debug to the planner category.
func PlannerDebug(format string, args ...interface{}) {
	Get(CategoryPlanner).Debugf(format, args...)
}

// Gen logs to the gen category.
func Gen(format string, args ...interface{}) {
	Get(CategoryGen).Infof(format, args...)
}

// GenDebug logs debug to the gen category.
func GenDebug(format string, args ...interface{}) {
	Get(CategoryGen).Debugf(format, args...)
}

// GenWarn logs warning to the gen category.
func GenWarn(format string, args ...interface{}) {
	Get(CategoryGen).Warnf(format, args...)
}

// Quality logs to the quality category.
func Quality(format string, args ...interface{}) {
	Get(CategoryQuality).Infof(format, args...)
}

// QualityDebug logs debug to the quality category.
func QualityDebug(format string, args ...interface{}) {
	Get(CategoryQuality).Debugf(format, args...)
}

// Campaign logs to the campaign category.
func Campaign(format string, args ...interface{}) {
	Get(CategoryCampaign).Infof(format, args...)
}

// CampaignDebug logs debug to the campaign category.
func CampaignDebug(format string, args ...interface{}) {
	Get(CategoryCampaign).Debugf(format, args...)
}

// CampaignWarn logs warning to the campaign category.
func CampaignWarn(format string, args ...interface{}) {
	Get(CategoryCampaign).Warnf(format, args...)
}

// CampaignError logs error to the campaign category.
func CampaignError(format string, args ...interface{}) {
	Get(CategoryCampaign).Errorf(format, args...)
}

// Memory logs to the memory category.
func Memory(format string, args ...interface{}) {
	Get(CategoryMemory).Infof(format, args...)
}

// MemoryDebug logs debug to the memory category.
func MemoryDebug(format string, args ...interface{}) {
	Get(CategoryMemory).Debugf(format, args...)
}

// MemoryWarn logs warning to the memory category.
func MemoryWarn(format string, args ...interface{}) {
	Get(CategoryMemory).Warnf(format, args...)
}

// Store logs to the store category.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Infof(format, args...)
}

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debugf(format, args...)
}

// StoreWarn logs warning to the store category.
func StoreWarn(format string, args ...interface{}) {
	Get(CategoryStore).Warnf(format, args...)
}

// Batch logs to the batch category.
func Batch(format string, args ...interface{}) {
	Get(CategoryBatch).Infof(format, args...)
}

// BatchWarn logs warning to the batch category.
func BatchWarn(format string, args ...interface{}) {
	Get(CategoryBatch).Warnf(format, args...)
}
