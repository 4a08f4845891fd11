package sqlinline

const generationColumns = `id::text, user_id::text, effect_type, coalesce(effect_category, ''), coalesce(image_url, ''),
       ai_analysis, generated_prompt, coalesce(intensity, 0), coalesce(duration, ''), coalesce(style, ''), created_at`

const QInsertGeneration = `--sql 0226b4f4-2af3-494d-aed5-60985270f481
insert into generations (id, user_id, effect_type, effect_category, image_url, ai_analysis,
                         generated_prompt, intensity, duration, style, created_at)
values ($1::uuid, $2::uuid, $3::text, nullif($4::text, ''), nullif($5::text, ''), $6::jsonb,
        $7::text, $8::int, $9::text, $10::text, now())
returning created_at;
`

const QListGenerationsByUser = `--sql 86ffcec9-e90d-4158-b75c-a1b5f9d35080
select ` + generationColumns + `
from generations
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`

const QSelectGenerationByID = `--sql 2541f746-126c-444e-895e-45f4d1b8ec30
select ` + generationColumns + `
from generations
where user_id = $1::uuid and id = $2::uuid;
`

const QDeleteGeneration = `--sql a6c06f07-5d4a-4937-86cc-cd39089298a4
delete from generations
where user_id = $1::uuid and id = $2::uuid;
`
